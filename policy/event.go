package policy

// Event is an opaque handle for an in-flight asynchronous send or
// receive. It is single-use: once Wait returns, the Event must not be
// reused.
//
// Adapted from zeromq-gyre's Event, which carried a finished message's
// sender/group/payload; here the payload already lives in the caller's
// buffer, so Event only carries completion and, for any-source receives,
// provenance (source VAddr and tag).
type Event struct {
	wait   func() error
	source VAddr
	tag    int
	done   bool
	err    error
}

// NewEvent builds an Event backed by a wait function. Substrate packages
// use this to adapt their native completion handles (zmq poll, channel
// recv, ...) to the Event contract.
func NewEvent(wait func() error, source VAddr, tag int) *Event {
	return &Event{wait: wait, source: source, tag: tag}
}

// NewAnyEvent builds an Event whose source and tag are only known once
// the underlying operation completes, as with an any-source receive.
func NewAnyEvent(wait func() (VAddr, int, error)) *Event {
	e := &Event{}
	e.wait = func() error {
		src, tag, err := wait()
		e.source, e.tag = src, tag
		return err
	}
	return e
}

// Wait blocks the caller until the underlying operation completes. After
// Wait returns, the Event is consumed; calling Wait again returns the
// same error without re-invoking the underlying operation.
func (e *Event) Wait() error {
	if e.done {
		return e.err
	}
	e.done = true
	if e.wait != nil {
		e.err = e.wait()
	}
	return e.err
}

// Source returns the VAddr that completed the operation. Only meaningful
// for events obtained from an any-source receive.
func (e *Event) Source() VAddr { return e.source }

// Tag returns the tag of the completed message. Only meaningful for
// events obtained from an any-source receive.
func (e *Event) Tag() int { return e.tag }
