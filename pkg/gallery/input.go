package gallery

import "strings"

// Key is a keyboard key the lightbox reacts to.
type Key int

const (
	KeyNone Key = iota
	KeyEscape
	KeyLeft
	KeyRight
)

// ParseKey maps key names from browsers ("Escape", "ArrowLeft") and
// terminals ("esc", "left", "h", "l") to a Key. Unknown names give KeyNone.
func ParseKey(name string) Key {
	switch strings.ToLower(name) {
	case "escape", "esc":
		return KeyEscape
	case "arrowleft", "left", "h":
		return KeyLeft
	case "arrowright", "right", "l":
		return KeyRight
	default:
		return KeyNone
	}
}

// HandleKey applies a key press and reports whether it was consumed.
// Keys are ignored while inactive.
func (n *Navigator) HandleKey(k Key) bool {
	if !n.Active() {
		return false
	}
	switch k {
	case KeyEscape:
		n.Dismiss()
	case KeyLeft:
		n.Previous()
	case KeyRight:
		n.Next()
	default:
		return false
	}
	return true
}

// Target is the element a pointer activation landed on.
type Target int

const (
	// TargetCell is a grid cell; the click carries the cell's index.
	TargetCell Target = iota
	// TargetBackdrop is the overlay area around the focused image.
	TargetBackdrop
	// TargetImage is the focused image itself. Clicks on it are inert.
	TargetImage
	TargetClose
	TargetPrevious
	TargetNext
)

// Click applies a pointer activation. index is only read for TargetCell.
func (n *Navigator) Click(t Target, index int) {
	switch t {
	case TargetCell:
		n.Activate(index)
	case TargetBackdrop, TargetClose:
		n.Dismiss()
	case TargetPrevious:
		n.Previous()
	case TargetNext:
		n.Next()
	case TargetImage:
	}
}

// KeySource delivers key presses to subscribers. Subscribe returns a
// function that cancels the subscription.
type KeySource interface {
	Subscribe(fn func(Key)) (cancel func())
}

// KeyBus is an in-process [KeySource]. Hosts feed it key presses with
// Dispatch. It is not safe for concurrent use.
type KeyBus struct {
	next     int
	handlers map[int]func(Key)
}

// NewKeyBus returns an empty bus.
func NewKeyBus() *KeyBus {
	return &KeyBus{handlers: make(map[int]func(Key))}
}

// Subscribe registers fn until the returned cancel is called.
func (b *KeyBus) Subscribe(fn func(Key)) func() {
	id := b.next
	b.next++
	b.handlers[id] = fn
	return func() { delete(b.handlers, id) }
}

// Dispatch delivers k to every current subscriber.
func (b *KeyBus) Dispatch(k Key) {
	fns := make([]func(Key), 0, len(b.handlers))
	for _, fn := range b.handlers {
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		fn(k)
	}
}

// Listeners returns the number of live subscriptions.
func (b *KeyBus) Listeners() int { return len(b.handlers) }
