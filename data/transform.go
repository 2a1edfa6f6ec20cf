package data

import "fmt"

// Transform reindexes payload (shaped according to from) into the axis
// order/direction of to, which must be CompatibleByTransform with from.
// This is the automatic grid transform an Input applies implicitly on
// pull: axis reversal and permutation only, never resampling (that
// remains an adapter's job). Applying Transform twice (to peer and
// back) reproduces the original element ordering exactly.
func Transform(payload []float64, from, to Grid) ([]float64, error) {
	if from.Equal(to) {
		return payload, nil
	}
	if !from.CompatibleByTransform(to) {
		return nil, fmt.Errorf("grids are not compatible by transform")
	}

	n := len(from.DataShape)
	if n == 0 || len(payload) != from.Size() {
		return payload, nil
	}

	fromOrder := canonicalOrder(from.AxesOrder, n)
	toOrder := canonicalOrder(to.AxesOrder, n)
	fromInc := canonicalIncreasing(from.AxesIncreasing, n)
	toInc := canonicalIncreasing(to.AxesIncreasing, n)

	// perm[targetAxis] = sourceAxis carrying the same canonical axis id.
	perm := make([]int, n)
	for ta := 0; ta < n; ta++ {
		canonical := toOrder[ta]
		for sa := 0; sa < n; sa++ {
			if fromOrder[sa] == canonical {
				perm[ta] = sa
				break
			}
		}
	}

	toShape := make([]int, n)
	for ta := 0; ta < n; ta++ {
		toShape[ta] = from.DataShape[perm[ta]]
	}

	fromStrides := strides(from.DataShape)
	out := make([]float64, len(payload))
	toStrides := strides(toShape)

	idx := make([]int, n)
	for flat := 0; flat < len(out); flat++ {
		rem := flat
		for ta := 0; ta < n; ta++ {
			idx[ta] = rem / toStrides[ta]
			rem %= toStrides[ta]
		}

		srcFlat := 0
		for ta := 0; ta < n; ta++ {
			sa := perm[ta]
			i := idx[ta]
			// Source axis sa and target axis ta carry the same canonical
			// axis; a direction flip between them reverses the index.
			if fromInc[sa] != toInc[ta] {
				i = from.DataShape[sa] - 1 - i
			}
			srcFlat += i * fromStrides[sa]
		}

		out[flat] = payload[srcFlat]
	}

	return out, nil
}

func canonicalOrder(order []int, n int) []int {
	if len(order) == n {
		return order
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func canonicalIncreasing(inc []bool, n int) []bool {
	if len(inc) == n {
		return inc
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = true
	}
	return out
}

func strides(shape []int) []int {
	s := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = acc
		acc *= shape[i]
	}
	return s
}
