package boxmark

import (
	"fmt"
	"strconv"
)

// Rectangle is the sole domain entity: an annotation box in world
// coordinates. Rotation is in degrees around the top-left corner and is only
// present once a transform has been committed.
type Rectangle struct {
	ID       string   `json:"id"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Rotation *float64 `json:"rotation,omitempty"`
	Alert    *bool    `json:"alert,omitempty"`
}

// RotationDeg returns the rotation in degrees, zero when unset.
func (r Rectangle) RotationDeg() float64 {
	if r.Rotation == nil {
		return 0
	}
	return *r.Rotation
}

// Alerted reports whether the alert flag is set and true.
func (r Rectangle) Alerted() bool {
	return r.Alert != nil && *r.Alert
}

// clone returns a deep copy so callers can never alias stored optionals.
func (r Rectangle) clone() Rectangle {
	if r.Rotation != nil {
		v := *r.Rotation
		r.Rotation = &v
	}
	if r.Alert != nil {
		v := *r.Alert
		r.Alert = &v
	}
	return r
}

// ShapePatch is a partial update. Nil fields keep the stored value. The id is
// not patchable.
type ShapePatch struct {
	X, Y          *float64
	Width, Height *float64
	Rotation      *float64
	Alert         *bool
}

// Float returns a pointer to v, for building patches.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v, for building patches.
func Bool(v bool) *bool { return &v }

func (p ShapePatch) apply(r Rectangle) Rectangle {
	if p.X != nil {
		r.X = *p.X
	}
	if p.Y != nil {
		r.Y = *p.Y
	}
	if p.Width != nil {
		r.Width = *p.Width
	}
	if p.Height != nil {
		r.Height = *p.Height
	}
	if p.Rotation != nil {
		r.Rotation = Float(*p.Rotation)
	}
	if p.Alert != nil {
		r.Alert = Bool(*p.Alert)
	}
	return r
}

// StoreChange describes a store mutation delivered to observers.
type StoreChange uint8

const (
	ChangeAdd StoreChange = iota
	ChangeUpdate
	ChangeRemove
	ChangeReplace
)

// ShapeStore is an ordered collection of rectangles keyed by id. Insertion
// order is display and draw order: later entries draw on top.
//
// It is the arena for every other component. Nothing outside the store holds
// a Rectangle by reference; selection and gestures hold ids.
type ShapeStore struct {
	shapes    []Rectangle
	observers []func(StoreChange, string)
}

// NewShapeStore returns an empty store.
func NewShapeStore() *ShapeStore {
	return &ShapeStore{}
}

// OnChange registers fn to run after every mutation. id is the affected
// shape, empty for ChangeReplace.
func (s *ShapeStore) OnChange(fn func(change StoreChange, id string)) {
	s.observers = append(s.observers, fn)
}

func (s *ShapeStore) notify(change StoreChange, id string) {
	for _, fn := range s.observers {
		fn(change, id)
	}
}

// Len returns the number of stored rectangles.
func (s *ShapeStore) Len() int {
	return len(s.shapes)
}

// NextID returns the id the default scheme assigns to the next added shape:
// "rect" followed by count+1.
func (s *ShapeStore) NextID() string {
	return "rect" + strconv.Itoa(len(s.shapes)+1)
}

// Index returns the position of the first rectangle with id, or -1.
func (s *ShapeStore) Index(id string) int {
	for i := range s.shapes {
		if s.shapes[i].ID == id {
			return i
		}
	}
	return -1
}

// Has reports whether id is present.
func (s *ShapeStore) Has(id string) bool {
	return s.Index(id) >= 0
}

// Get returns a copy of the rectangle with id.
func (s *ShapeStore) Get(id string) (Rectangle, bool) {
	i := s.Index(id)
	if i < 0 {
		return Rectangle{}, false
	}
	return s.shapes[i].clone(), true
}

// At returns a copy of the rectangle at position i.
func (s *ShapeStore) At(i int) Rectangle {
	return s.shapes[i].clone()
}

// Add appends r. It fails with ErrDuplicateID if the id already exists.
func (s *ShapeStore) Add(r Rectangle) error {
	if s.Has(r.ID) {
		return fmt.Errorf("add %q: %w", r.ID, ErrDuplicateID)
	}
	s.shapes = append(s.shapes, r.clone())
	s.notify(ChangeAdd, r.ID)
	return nil
}

// Update replaces the record at id with patch merged over it and returns the
// new record. Either the record is replaced whole or ErrShapeNotFound is
// returned and nothing changes.
func (s *ShapeStore) Update(id string, patch ShapePatch) (Rectangle, error) {
	i := s.Index(id)
	if i < 0 {
		return Rectangle{}, fmt.Errorf("update %q: %w", id, ErrShapeNotFound)
	}
	return s.UpdateAt(i, patch)
}

// UpdateAt is Update addressed by draw-order position, for stores holding
// duplicate ids where Update would always hit the first match. The id is
// preserved. An index out of range returns ErrShapeNotFound.
func (s *ShapeStore) UpdateAt(i int, patch ShapePatch) (Rectangle, error) {
	if i < 0 || i >= len(s.shapes) {
		return Rectangle{}, fmt.Errorf("update index %d: %w", i, ErrShapeNotFound)
	}
	s.shapes[i] = patch.apply(s.shapes[i].clone())
	s.notify(ChangeUpdate, s.shapes[i].ID)
	return s.shapes[i].clone(), nil
}

// Remove filters every rectangle with id out of the store. Removing an absent
// id is a no-op; the return value reports whether anything was removed.
func (s *ShapeStore) Remove(id string) bool {
	kept := s.shapes[:0]
	removed := false
	for _, r := range s.shapes {
		if r.ID == id {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	for i := len(kept); i < len(s.shapes); i++ {
		s.shapes[i] = Rectangle{}
	}
	s.shapes = kept
	if removed {
		s.notify(ChangeRemove, id)
	}
	return removed
}

// ReplaceAll swaps the whole collection for rects. Ids are not checked for
// uniqueness; see DuplicateIDs.
func (s *ShapeStore) ReplaceAll(rects []Rectangle) {
	next := make([]Rectangle, len(rects))
	for i, r := range rects {
		next[i] = r.clone()
	}
	s.shapes = next
	s.notify(ChangeReplace, "")
}

// List returns a copy of the rectangles in insertion order.
func (s *ShapeStore) List() []Rectangle {
	out := make([]Rectangle, len(s.shapes))
	for i, r := range s.shapes {
		out[i] = r.clone()
	}
	return out
}

// DuplicateIDs returns every id that occurs more than once in rects, in order
// of first repetition.
func DuplicateIDs(rects []Rectangle) []string {
	seen := make(map[string]int, len(rects))
	var dups []string
	for _, r := range rects {
		seen[r.ID]++
		if seen[r.ID] == 2 {
			dups = append(dups, r.ID)
		}
	}
	return dups
}
