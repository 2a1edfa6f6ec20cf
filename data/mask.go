package data

// MaskPolicy selects how an Input or Output declares masked-value
// handling for its data.
type MaskPolicy int

const (
	// MaskFlex accepts either masked or unmasked data from the peer.
	MaskFlex MaskPolicy = iota
	// MaskNone requires unmasked data.
	MaskNone
	// MaskExplicit requires data to follow the explicit boolean mask
	// carried alongside it.
	MaskExplicit
)

// Mask describes the mask policy for a slot, with an explicit per-cell
// boolean mask when Policy is MaskExplicit.
type Mask struct {
	Policy MaskPolicy
	Values []bool
}

// Compatible reports whether accepting data governed by other is legal
// for a slot declaring m. FLEX accepts anything; NONE accepts NONE or
// FLEX; an explicit mask only accepts an identical explicit mask or FLEX.
func (m Mask) Compatible(other Mask) bool {
	if m.Policy == MaskFlex || other.Policy == MaskFlex {
		return true
	}
	if m.Policy != other.Policy {
		return false
	}
	if m.Policy != MaskExplicit {
		return true
	}
	if len(m.Values) != len(other.Values) {
		return false
	}
	for i := range m.Values {
		if m.Values[i] != other.Values[i] {
			return false
		}
	}
	return true
}
