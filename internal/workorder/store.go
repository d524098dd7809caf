// server/internal/workorder/store.go
package workorder

import (
	"context"

	"garage-ops-api-server/internal/models"
)

// Store is the persistence boundary of the lifecycle engine. The Mongo
// implementation lives in mongo_store.go; tests use an in-memory fake.
type Store interface {
	// GetWorkOrder loads a work order by its human-readable id.
	// Returns ErrNotFound when absent.
	GetWorkOrder(ctx context.Context, workOrderID string) (*models.WorkOrder, error)

	// UpdateWorkOrderCAS writes the document back, filtering on the version
	// it was read at. Returns ErrConflict when another writer won the race.
	// On success the stored version is wo.Version+1.
	UpdateWorkOrderCAS(ctx context.Context, wo *models.WorkOrder) error

	// AppendLog inserts one audit-trail entry. Entries are never updated.
	AppendLog(ctx context.Context, entry *models.StageLog) error

	// InsertQA stores a new verification attempt.
	InsertQA(ctx context.Context, qa *models.QAVerification) error

	// GetPendingQA returns the pending verification for the work order, or
	// ErrQANotPending when none exists.
	GetPendingQA(ctx context.Context, workOrderID string) (*models.QAVerification, error)

	// UpdateQADecision persists the decision fields of a verification. Only
	// legal while the stored decision is still pending.
	UpdateQADecision(ctx context.Context, qa *models.QAVerification) error
}

// RateResolver returns the hourly rate (cents) for a technician, used to
// snapshot the rate onto a stage at assignment time.
type RateResolver func(ctx context.Context, technicianID string) (int64, error)
