package driver

import "time"

// Stage is one step of the per-unit pipeline.
type Stage uint8

const (
	StageQueued Stage = iota
	// StageParse covers macro expansion too: the sequencer feeds the parser.
	StageParse
	StageLower
	StageCheckReturns
	StageSizes
)

func (s Stage) String() string {
	switch s {
	case StageQueued:
		return "queued"
	case StageParse:
		return "parse"
	case StageLower:
		return "lower"
	case StageCheckReturns:
		return "check_returns"
	case StageSizes:
		return "size_bits"
	default:
		return "unknown"
	}
}

// Status reports where a unit is within a stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event describes a stage boundary of one unit.
type Event struct {
	Unit    string
	Stage   Stage
	Status  Status
	Elapsed time.Duration
}

// Observer receives events from Build and BuildAll. It may be called from
// several goroutines at once.
type Observer func(Event)

func (o Observer) notify(ev Event) {
	if o != nil {
		o(ev)
	}
}

// ChannelObserver forwards events to ch. Send blocks, so ch must be drained.
func ChannelObserver(ch chan<- Event) Observer {
	return func(ev Event) { ch <- ev }
}
