package gallery

import "fmt"

// Inactive is the focused index while no lightbox is shown.
const Inactive = -1

// Event identifies a navigator transition trigger.
type Event int

const (
	EventActivate Event = iota
	EventNext
	EventPrevious
	EventDismiss
	// EventReset is emitted when a shrinking sequence invalidates the
	// focused index.
	EventReset
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventActivate:
		return "activate"
	case EventNext:
		return "next"
	case EventPrevious:
		return "previous"
	case EventDismiss:
		return "dismiss"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Transition describes one state change. From and To are focused indices.
type Transition struct {
	Event Event
	From  int
	To    int
}

// NavigatorOption configures a [Navigator].
type NavigatorOption func(*Navigator)

// WithKeySource makes the navigator subscribe to keys from src while active.
func WithKeySource(src KeySource) NavigatorOption {
	return func(n *Navigator) { n.keys = src }
}

// WithOnChange registers fn to observe every state change.
func WithOnChange(fn func(Transition)) NavigatorOption {
	return func(n *Navigator) { n.onChange = fn }
}

// Navigator is the lightbox state machine. The zero value is not usable;
// create one with [NewNavigator].
type Navigator struct {
	seq      Sequence
	focused  int
	keys     KeySource
	cancel   func()
	onChange func(Transition)
}

// NewNavigator returns an inactive navigator over seq.
func NewNavigator(seq Sequence, opts ...NavigatorOption) *Navigator {
	n := &Navigator{seq: seq, focused: Inactive}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Navigator) len() int {
	if n.seq == nil {
		return 0
	}
	return n.seq.Len()
}

// Focused returns the focused index, or [Inactive]. The stored index is
// checked against the sequence's current length on every read; if it no
// longer fits the navigator resets to inactive.
func (n *Navigator) Focused() int {
	if n.focused != Inactive && n.focused >= n.len() {
		n.set(EventReset, Inactive)
	}
	return n.focused
}

// Active reports whether a lightbox is shown.
func (n *Navigator) Active() bool { return n.Focused() != Inactive }

// Activate focuses image i. It re-targets when already active. An index
// outside [0, N) is ignored and Activate returns false.
func (n *Navigator) Activate(i int) bool {
	if i < 0 || i >= n.len() {
		return false
	}
	n.set(EventActivate, i)
	return true
}

// Next moves to the following image, wrapping from the last to the first.
// It is a no-op while inactive.
func (n *Navigator) Next() { n.step(EventNext, 1) }

// Previous moves to the preceding image, wrapping from the first to the
// last. It is a no-op while inactive.
func (n *Navigator) Previous() { n.step(EventPrevious, -1) }

func (n *Navigator) step(e Event, delta int) {
	cur := n.Focused()
	if cur == Inactive {
		return
	}
	size := n.len()
	n.set(e, ((cur+delta)%size+size)%size)
}

// Dismiss closes the lightbox. Repeated calls have no further effect.
func (n *Navigator) Dismiss() {
	if n.Focused() == Inactive {
		return
	}
	n.set(EventDismiss, Inactive)
}

// Close releases the keyboard subscription. The navigator stays usable and
// resubscribes on the next activation.
func (n *Navigator) Close() {
	n.focused = Inactive
	n.release()
}

// Subscribed reports whether the navigator currently holds a keyboard
// subscription.
func (n *Navigator) Subscribed() bool { return n.cancel != nil }

// Indicator returns the 1-based "position / total" label, or "" while
// inactive.
func (n *Navigator) Indicator() string {
	i := n.Focused()
	if i == Inactive {
		return ""
	}
	return fmt.Sprintf("%d / %d", i+1, n.len())
}

// Current returns the focused record.
func (n *Navigator) Current() (ImageRecord, bool) {
	i := n.Focused()
	if i == Inactive {
		return ImageRecord{}, false
	}
	return n.seq.At(i), true
}

func (n *Navigator) set(e Event, to int) {
	from := n.focused
	n.focused = to

	switch {
	case to == Inactive:
		n.release()
	case n.cancel == nil && n.keys != nil:
		n.cancel = n.keys.Subscribe(func(k Key) { n.HandleKey(k) })
	}

	if n.onChange != nil {
		n.onChange(Transition{Event: e, From: from, To: to})
	}
}

func (n *Navigator) release() {
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
}
