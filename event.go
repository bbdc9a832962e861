package graybat

import "github.com/graybat-go/graybat/policy"

// Event is re-exported from policy; see policy.Event for the full doc.
type Event = policy.Event

// NewEvent and NewAnyEvent are re-exported for symmetry with the Event
// alias above.
var (
	NewEvent    = policy.NewEvent
	NewAnyEvent = policy.NewAnyEvent
)
