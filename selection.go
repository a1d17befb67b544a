package boxmark

import "strings"

// handleSuffix marks target names that belong to a transform handle.
const handleSuffix = "_anchor"

// IsHandleName reports whether a target name denotes a resize or rotate
// handle. Pointer-downs on handles must never clear the selection.
func IsHandleName(name string) bool {
	return strings.Contains(name, handleSuffix)
}

// Selection tracks at most one selected shape id. It holds the id as a lookup
// key into the store and clears itself whenever the store stops holding it.
type Selection struct {
	store *ShapeStore
	id    string
	ok    bool
}

// NewSelection creates an empty selection bound to store.
func NewSelection(store *ShapeStore) *Selection {
	sel := &Selection{store: store}
	store.OnChange(func(change StoreChange, id string) {
		switch change {
		case ChangeRemove, ChangeReplace:
			sel.Reconcile()
		}
	})
	return sel
}

// ID returns the selected id and whether anything is selected.
func (s *Selection) ID() (string, bool) {
	return s.id, s.ok
}

// IsSelected reports whether id is the current selection.
func (s *Selection) IsSelected(id string) bool {
	return s.ok && s.id == id
}

// Select makes id the only selected shape. It is ignored when editable is
// false or the store does not hold id. Returns whether the selection changed.
func (s *Selection) Select(id string, editable bool) bool {
	if !editable || !s.store.Has(id) {
		return false
	}
	if s.ok && s.id == id {
		return false
	}
	s.id, s.ok = id, true
	return true
}

// Clear deselects. Returns whether something was selected.
func (s *Selection) Clear() bool {
	was := s.ok
	s.id, s.ok = "", false
	return was
}

// HandlePointerDown applies the deselect-on-empty-click rule: a pointer-down
// whose target id differs from the selection and which is not a handle clears
// the selection. Returns whether the selection was cleared.
func (s *Selection) HandlePointerDown(t Target) bool {
	if !s.ok {
		return false
	}
	if t.ID == s.id || IsHandleName(t.Name) {
		return false
	}
	return s.Clear()
}

// Reconcile clears a selection that points at an id the store no longer
// holds.
func (s *Selection) Reconcile() {
	if s.ok && !s.store.Has(s.id) {
		s.Clear()
	}
}
