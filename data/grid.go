package data

import "strconv"

// Location describes whether grid-attached data lives on grid cells or on
// grid points.
type Location int

const (
	// LocationCells indicates one value per grid cell.
	LocationCells Location = iota
	// LocationPoints indicates one value per grid point/vertex.
	LocationPoints
)

// Kind identifies which concrete grid specification a Grid holds.
type Kind int

const (
	KindNoGrid Kind = iota
	KindUniform
	KindRectilinear
	KindESRI
	KindUnstructuredMesh
	KindUnstructuredPoints
)

// Grid is a grid specification attached to an Envelope. Exactly the
// fields relevant to Kind are meaningful; others are zero.
//
// The core treats grid geometry (CRS reprojection, regridding kernels,
// mesh math) as an external collaborator's concern; Grid here only
// carries the metadata needed to decide
// compatibility and the automatic axis-order/direction transform; the
// actual coordinate arrays are opaque payloads supplied by the caller.
type Grid struct {
	Kind Kind

	// NDims is meaningful only for KindNoGrid.
	NDims int

	// DataShape is the shape data must have at Location for this grid.
	DataShape []int
	Location  Location

	// CRS is an opaque coordinate-reference-system identifier (e.g. an
	// EPSG code or PROJ string); the core never interprets it beyond
	// equality comparison.
	CRS string

	// AxesOrder gives, for each axis of DataShape, the index of the
	// corresponding "canonical" axis. Two grids are compatible-by-
	// transform when they agree on everything except AxesOrder and
	// AxesIncreasing — i.e. a pure permutation/reversal separates them.
	AxesOrder      []int
	AxesIncreasing []bool
}

// NewNoGrid returns a Grid describing unstructured, gridless data of the
// given dimensionality and shape.
func NewNoGrid(ndims int, shape []int) Grid {
	return Grid{Kind: KindNoGrid, NDims: ndims, DataShape: append([]int(nil), shape...), Location: LocationCells}
}

// NewUniform returns a uniform structured grid specification.
func NewUniform(shape []int, crs string, loc Location) Grid {
	return Grid{Kind: KindUniform, DataShape: append([]int(nil), shape...), CRS: crs, Location: loc}
}

// NewRectilinear returns a rectilinear structured grid specification.
func NewRectilinear(shape []int, crs string, loc Location) Grid {
	return Grid{Kind: KindRectilinear, DataShape: append([]int(nil), shape...), CRS: crs, Location: loc}
}

// NewESRI returns an ESRI-style structured grid specification.
func NewESRI(shape []int, crs string, loc Location) Grid {
	return Grid{Kind: KindESRI, DataShape: append([]int(nil), shape...), CRS: crs, Location: loc}
}

// NewUnstructuredMesh returns an unstructured mesh grid specification.
func NewUnstructuredMesh(shape []int, crs string, loc Location) Grid {
	return Grid{Kind: KindUnstructuredMesh, DataShape: append([]int(nil), shape...), CRS: crs, Location: loc}
}

// NewUnstructuredPoints returns an unstructured point-cloud grid
// specification (always point-located).
func NewUnstructuredPoints(shape []int, crs string) Grid {
	return Grid{Kind: KindUnstructuredPoints, DataShape: append([]int(nil), shape...), CRS: crs, Location: LocationPoints}
}

// Equal reports whether g and other describe the same grid, with no
// tolerance for axis differences.
func (g Grid) Equal(other Grid) bool {
	if g.Kind != other.Kind || g.Location != other.Location || g.CRS != other.CRS {
		return false
	}
	if g.Kind == KindNoGrid && g.NDims != other.NDims {
		return false
	}
	if !intsEqual(g.DataShape, other.DataShape) {
		return false
	}
	return axesEqual(g.AxesOrder, other.AxesOrder) && boolsEqual(g.AxesIncreasing, other.AxesIncreasing)
}

// CompatibleByTransform reports whether other can be reached from g by a
// pure axis permutation/reversal (no resampling): equal CRS, equal
// multiset of shape dimensions, differing only in AxesOrder /
// AxesIncreasing. Grids of different Kind, or NoGrid, are never
// transform-compatible with anything but themselves.
func (g Grid) CompatibleByTransform(other Grid) bool {
	if g.Equal(other) {
		return true
	}
	if g.Kind != other.Kind || g.Kind == KindNoGrid {
		return false
	}
	if g.Location != other.Location || g.CRS != other.CRS {
		return false
	}
	if len(g.DataShape) != len(other.DataShape) {
		return false
	}
	return sortedCopy(g.DataShape) == sortedCopyKey(other.DataShape)
}

func sortedCopy(s []int) string { return sortedCopyKey(s) }
func sortedCopyKey(s []int) string {
	sorted := append([]int(nil), s...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	key := ""
	for _, v := range sorted {
		key += "," + strconv.Itoa(v)
	}
	return key
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func axesEqual(a, b []int) bool { return intsEqual(a, b) }

func boolsEqual(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Size returns the total element count implied by DataShape.
func (g Grid) Size() int {
	n := 1
	for _, d := range g.DataShape {
		n *= d
	}
	return n
}
