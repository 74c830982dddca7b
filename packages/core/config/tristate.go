package config

import "strings"

// Tristate is a flag that can be unset, enabled or disabled
type Tristate int

const (
	Unset Tristate = iota
	Enabled
	Disabled
)

func (t Tristate) String() string {
	switch t {
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	default:
		return "unset"
	}
}

// IsSet reports whether the value is Enabled or Disabled
func (t Tristate) IsSet() bool {
	return t != Unset
}

// Or returns t, or def when t is Unset
func (t Tristate) Or(def Tristate) Tristate {
	if t == Unset {
		return def
	}
	return t
}

// ParseStrict accepts only "true" and "false". Anything else, including the
// empty string, is Unset.
func ParseStrict(s string) Tristate {
	switch strings.TrimSpace(s) {
	case "true":
		return Enabled
	case "false":
		return Disabled
	default:
		return Unset
	}
}

// ParseLenient treats the empty string as Unset, "false" as Disabled and
// every other value as Enabled.
func ParseLenient(s string) Tristate {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Unset
	case s == "false":
		return Disabled
	default:
		return Enabled
	}
}
