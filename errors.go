package boxmark

import "errors"

var (
	// ErrDuplicateID is returned by ShapeStore.Add when the id is taken.
	ErrDuplicateID = errors.New("boxmark: duplicate shape id")
	// ErrShapeNotFound is returned when an operation names an id the store
	// does not hold.
	ErrShapeNotFound = errors.New("boxmark: shape not found")
	// ErrNoPointer is returned when a pointer-anchored operation runs before
	// any pointer position has been observed.
	ErrNoPointer = errors.New("boxmark: no pointer position")
	// ErrInvalidScale is returned when a viewport change would leave the scale
	// non-positive or not finite.
	ErrInvalidScale = errors.New("boxmark: invalid viewport scale")
	// ErrNotEditable is returned by editing commands while edit mode is off.
	ErrNotEditable = errors.New("boxmark: editor is not editable")
	// ErrNoGesture is returned when a gesture update arrives with no gesture
	// in progress.
	ErrNoGesture = errors.New("boxmark: no gesture in progress")
)
