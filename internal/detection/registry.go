package detection

// Cell is a detected blob centre in GrayBuffer coordinates.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Point is a position in unpadded image coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Registry is the set of cells detected during a run.
//
// Cells are keyed by exact coordinate equality: two detections at different
// positions are kept even if they belong to the same physical blob. The
// detector's suppression step, not the registry, is what keeps a blob from
// being reported repeatedly. A Registry is not safe for concurrent use.
type Registry struct {
	seen  map[Cell]struct{}
	order []Cell
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{seen: make(map[Cell]struct{})}
}

// Add inserts c and reports whether it was new.
func (r *Registry) Add(c Cell) bool {
	if _, ok := r.seen[c]; ok {
		return false
	}
	r.seen[c] = struct{}{}
	r.order = append(r.order, c)
	return true
}

// Contains reports whether a cell at (x, y) has been registered.
func (r *Registry) Contains(x, y int) bool {
	_, ok := r.seen[Cell{X: x, Y: y}]
	return ok
}

// Len returns the number of registered cells.
func (r *Registry) Len() int {
	return len(r.order)
}

// Cells returns the registered cells, most recent detection first.
func (r *Registry) Cells() []Cell {
	out := make([]Cell, len(r.order))
	for i, c := range r.order {
		out[len(r.order)-1-i] = c
	}
	return out
}

// Points returns the registered cells in image coordinates, most recent
// detection first, by subtracting the buffer margin pad.
func (r *Registry) Points(pad int) []Point {
	cells := r.Cells()
	out := make([]Point, len(cells))
	for i, c := range cells {
		out[i] = Point{X: c.X - pad, Y: c.Y - pad}
	}
	return out
}
