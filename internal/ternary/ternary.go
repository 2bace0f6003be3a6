// Package ternary implements three-valued (Kleene) booleans for containment
// queries over partially missing data.
package ternary

// Bool is a three-valued boolean. The zero value is False.
type Bool uint8

const (
	False Bool = iota
	True
	Unknown
)

// Of converts a two-valued boolean.
func Of(b bool) Bool {
	if b {
		return True
	}
	return False
}

func (b Bool) String() string {
	switch b {
	case False:
		return "false"
	case True:
		return "true"
	default:
		return "unknown"
	}
}

// IsTrue reports whether b is definitely true. Unknown is not true.
func (b Bool) IsTrue() bool { return b == True }

// IsKnown reports whether b is True or False.
func (b Bool) IsKnown() bool { return b != Unknown }

// Not negates b. Unknown stays Unknown.
func (b Bool) Not() Bool {
	switch b {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

// And is Kleene conjunction: False dominates, then Unknown.
func (b Bool) And(o Bool) Bool {
	if b == False || o == False {
		return False
	}
	if b == Unknown || o == Unknown {
		return Unknown
	}
	return True
}

// Or is Kleene disjunction: True dominates, then Unknown.
func (b Bool) Or(o Bool) Bool {
	if b == True || o == True {
		return True
	}
	if b == Unknown || o == Unknown {
		return Unknown
	}
	return False
}
