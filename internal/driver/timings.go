package driver

import (
	"fmt"
	"strings"
	"time"
)

// StageTiming is the wall time spent in one stage.
type StageTiming struct {
	Stage   Stage
	Elapsed time.Duration
}

// Total sums all stages.
func Total(ts []StageTiming) time.Duration {
	var sum time.Duration
	for _, t := range ts {
		sum += t.Elapsed
	}
	return sum
}

// FormatTimings renders "parse 1.20ms, lower 0.31ms (total 1.51ms)".
func FormatTimings(ts []StageTiming) string {
	if len(ts) == 0 {
		return "no stages ran"
	}
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = fmt.Sprintf("%s %s", t.Stage, ms(t.Elapsed))
	}
	return fmt.Sprintf("%s (total %s)", strings.Join(parts, ", "), ms(Total(ts)))
}

func ms(d time.Duration) string {
	return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
}
