package domain

type CheckoutState string

const (
	CheckoutStateIdle      CheckoutState = "IDLE"
	CheckoutStateEditing   CheckoutState = "EDITING"
	CheckoutStateSubmitted CheckoutState = "SUBMITTED"
	CheckoutStateFailed    CheckoutState = "FAILED"
)

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutStateIdle:      {CheckoutStateEditing},
	CheckoutStateEditing:   {CheckoutStateIdle, CheckoutStateSubmitted, CheckoutStateFailed},
	CheckoutStateFailed:    {CheckoutStateIdle, CheckoutStateEditing, CheckoutStateSubmitted, CheckoutStateFailed},
	CheckoutStateSubmitted: {CheckoutStateIdle},
}

// CanTransitionTo reports whether the checkout state machine allows moving
// from one state to another.
func CanTransitionTo(from, to CheckoutState) bool {
	for _, allowed := range checkoutTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// String representation (for logging)
func (s CheckoutState) String() string {
	return string(s)
}
