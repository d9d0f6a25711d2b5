package canvas

import (
	"image"

	"github.com/ha1tch/padgraph/pkg/graph"
)

// Record is the on-canvas state of one element.
type Record struct {
	Name     string
	Rect     image.Rectangle
	Selected bool
}

// Layout keeps one Record per element of the last reconciled snapshot,
// in snapshot order, so ElementID i owns Records()[i].
type Layout struct {
	opts    Options
	records []Record
	index   map[string]int
}

// NewLayout creates an empty layout.
func NewLayout(opts Options) *Layout {
	return &Layout{opts: opts, index: make(map[string]int)}
}

// Records returns the records in snapshot order. The slice is shared;
// callers must not modify it.
func (l *Layout) Records() []Record {
	return l.records
}

// Record returns the record for name.
func (l *Layout) Record(name string) (Record, bool) {
	i, ok := l.index[name]
	if !ok {
		return Record{}, false
	}
	return l.records[i], true
}

// Reconcile brings the layout in line with snap. Records of vanished
// elements are dropped, surviving records keep their position unless
// their new height collides with a neighbour, and new elements are placed
// at the default origin and shifted down until free. Records end up in
// snapshot order.
func (l *Layout) Reconcile(snap *graph.Snapshot) {
	// Survivors keep their relative order while placement runs; they are
	// the obstacles new and regrown records must avoid.
	work := make([]Record, 0, snap.Len())
	pos := make(map[string]int, snap.Len())
	for _, r := range l.records {
		if _, ok := snap.Lookup(r.Name); ok {
			pos[r.Name] = len(work)
			work = append(work, r)
		}
	}

	for i := range snap.Len() {
		e := snap.Element(graph.ElementID(i))
		if j, ok := pos[e.Name]; ok {
			work[j] = l.place(work, e, &work[j])
			continue
		}
		pos[e.Name] = len(work)
		work = append(work, l.place(work, e, nil))
	}

	l.records = work
	l.Reorder(snap)
}

// Reorder permutes the records into snapshot order without moving any of
// them. Every element of snap must already have a record.
func (l *Layout) Reorder(snap *graph.Snapshot) {
	byName := make(map[string]Record, len(l.records))
	for _, r := range l.records {
		byName[r.Name] = r
	}
	out := make([]Record, 0, snap.Len())
	for _, name := range snap.Names() {
		if r, ok := byName[name]; ok {
			out = append(out, r)
		}
	}
	l.records = out
	l.reindex()
}

// place sizes the record for e and pushes it down until it no longer
// conflicts with any other record in work.
func (l *Layout) place(work []Record, e *graph.Element, existing *Record) Record {
	r := Record{
		Name: e.Name,
		Rect: image.Rectangle{
			Min: l.opts.DefaultOrigin,
			Max: l.opts.DefaultOrigin.Add(image.Pt(l.opts.DefaultWidth, l.opts.MinHeight)),
		},
	}
	if existing != nil {
		r = *existing
	}

	in, out := e.Counts()
	r.Rect.Max.Y = r.Rect.Min.Y + max(l.opts.MinHeight, max(in, out)*l.opts.RowPitch)

	step := image.Pt(0, max(1, l.opts.Step))
	for l.collides(work, r) {
		r.Rect = r.Rect.Add(step)
	}
	return r
}

func (l *Layout) collides(work []Record, r Record) bool {
	for _, o := range work {
		if o.Name != r.Name && l.conflict(r.Rect, o.Rect) {
			return true
		}
	}
	return false
}

// conflict is symmetric: either rectangle, grown by Spacing, touching the
// other counts, so a placed record never ends up inside the grown area of a
// record placed before it.
func (l *Layout) conflict(a, b image.Rectangle) bool {
	return l.opts.Spacing.Grow(a).Overlaps(b) || l.opts.Spacing.Grow(b).Overlaps(a)
}

// Translate moves the record by delta when the result stays inside the
// bounds. It reports whether the move was applied.
func (l *Layout) Translate(name string, delta image.Point, bounds image.Rectangle) bool {
	i, ok := l.index[name]
	if !ok {
		return false
	}
	next := l.records[i].Rect.Add(delta)
	if !bounds.Empty() && !next.In(bounds) {
		return false
	}
	l.records[i].Rect = next
	return true
}

// Select marks name as selected.
func (l *Layout) Select(name string) bool {
	i, ok := l.index[name]
	if ok {
		l.records[i].Selected = true
	}
	return ok
}

// SelectIn selects every record intersecting area and returns their names.
func (l *Layout) SelectIn(area image.Rectangle) []string {
	var names []string
	for i := range l.records {
		if l.records[i].Rect.Overlaps(area) {
			l.records[i].Selected = true
			names = append(names, l.records[i].Name)
		}
	}
	return names
}

// ClearSelection deselects every record.
func (l *Layout) ClearSelection() {
	for i := range l.records {
		l.records[i].Selected = false
	}
}

// Selected returns the names of the selected records in order.
func (l *Layout) Selected() []string {
	var names []string
	for _, r := range l.records {
		if r.Selected {
			names = append(names, r.Name)
		}
	}
	return names
}

// SocketPoint is the canvas position of ref. The layout must have been
// reconciled with snap.
func (l *Layout) SocketPoint(snap *graph.Snapshot, ref graph.SocketRef) image.Point {
	index, count := snap.Rank(ref)
	return SocketPosition(l.records[ref.Element].Rect, snap.SocketAt(ref).Direction, index, count)
}

// Extent is the union of all record rectangles.
func (l *Layout) Extent() image.Rectangle {
	var r image.Rectangle
	for _, rec := range l.records {
		r = r.Union(rec.Rect)
	}
	return r
}

func (l *Layout) reindex() {
	l.index = make(map[string]int, len(l.records))
	for i, r := range l.records {
		l.index[r.Name] = i
	}
}
