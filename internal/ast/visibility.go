package ast

// Visibility of a declaration: sec (private), pro (protected) or pub.
type Visibility uint8

const (
	VisSec Visibility = iota
	VisPro
	VisPub
)

func (v Visibility) String() string {
	switch v {
	case VisPub:
		return "pub"
	case VisPro:
		return "pro"
	default:
		return "sec"
	}
}

// ParseVisibility is the inverse of String.
func ParseVisibility(s string) (Visibility, bool) {
	switch s {
	case "sec":
		return VisSec, true
	case "pro":
		return VisPro, true
	case "pub":
		return VisPub, true
	default:
		return VisSec, false
	}
}
