package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	SevDebug Severity = iota
	SevInfo
	SevWarning
	SevError
	// SevFatal abandons the current compilation unit.
	SevFatal
)

func (s Severity) String() string {
	switch s {
	case SevDebug:
		return "DEBUG"
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	case SevFatal:
		return "FATAL"
	}
	return "UNKNOWN"
}

// label is the lower-case spelling used in rendered headers.
func (s Severity) label() string {
	switch s {
	case SevDebug:
		return "debug"
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	case SevFatal:
		return "fatal error"
	}
	return "unknown"
}
