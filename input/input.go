// Package input defines the device-neutral events a host feeds the engine.
package input

// Buttons is a bitmask of held pointer buttons.
type Buttons uint8

const (
	ButtonLeft Buttons = 1 << iota
	ButtonRight
	ButtonMiddle
)

// Has reports whether all of b2 are held.
func (b Buttons) Has(b2 Buttons) bool { return b&b2 == b2 }

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// Key identifies the non-text keys the engine reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyEscape
	KeyEnter
	KeyBackspace
	KeyTab
	KeyShift
)

// Touch is one active touch point in surface coordinates.
type Touch struct {
	ID   int
	X, Y float64
}

// Event is one of the variants below.
type Event interface {
	isEvent()
}

type PointerDown struct {
	X, Y    float64
	Buttons Buttons
}

type PointerMove struct {
	X, Y    float64
	Buttons Buttons
}

// PointerUp carries the buttons that were held before release.
type PointerUp struct {
	X, Y    float64
	Buttons Buttons
}

type PointerLeave struct{}

// Wheel reports vertical scroll; DY > 0 scrolls down.
type Wheel struct {
	X, Y float64
	DY   float64
}

type TouchStart struct{ Touches []Touch }

type TouchMove struct{ Touches []Touch }

// TouchEnd carries the touches still active after the release.
type TouchEnd struct{ Touches []Touch }

type KeyDown struct {
	Key  Key
	Mods Modifiers
}

type KeyUp struct {
	Key  Key
	Mods Modifiers
}

// Char is typed text.
type Char struct{ Rune rune }

func (PointerDown) isEvent()  {}
func (PointerMove) isEvent()  {}
func (PointerUp) isEvent()    {}
func (PointerLeave) isEvent() {}
func (Wheel) isEvent()        {}
func (TouchStart) isEvent()   {}
func (TouchMove) isEvent()    {}
func (TouchEnd) isEvent()     {}
func (KeyDown) isEvent()      {}
func (KeyUp) isEvent()        {}
func (Char) isEvent()         {}
