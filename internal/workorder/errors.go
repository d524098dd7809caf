// server/internal/workorder/errors.go
package workorder

import "errors"

var (
	ErrNotFound          = errors.New("work order not found")
	ErrConflict          = errors.New("work order was modified concurrently")
	ErrStageNotFound     = errors.New("stage not found")
	ErrStageCompleted    = errors.New("stage is already completed")
	ErrStageOrder        = errors.New("preceding stage is not completed")
	ErrStageState        = errors.New("stage is not in a valid state for this transition")
	ErrHoursRequired     = errors.New("completing a stage requires accumulated hours > 0")
	ErrTechnicianUnknown = errors.New("technician not found")
	ErrTerminal          = errors.New("work order is in a terminal state")
	ErrNotReadyForQA     = errors.New("work order is not ready for QA")
	ErrInvalidPhotoCount = errors.New("QA approval requires 3 to 5 photos")
	ErrApprovalRequired  = errors.New("cancellation requires an approver and a reason")
	ErrQANotPending      = errors.New("no pending QA verification for this work order")

	// ErrLogAppend signals that the state transition was persisted but the
	// audit-trail entry was not. Callers must treat the transition as done.
	ErrLogAppend = errors.New("transition persisted but audit log append failed")
)
