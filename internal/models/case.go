// server/internal/models/case.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Case priorities and statuses.
const (
	CasePriorityLow    = "low"
	CasePriorityMedium = "medium"
	CasePriorityHigh   = "high"

	CaseOpen     = "open"
	CaseResolved = "resolved"
	CaseClosed   = "closed"
)

// CaseActivity is one entry of the append-only case log ($push only).
type CaseActivity struct {
	Actor     string    `bson:"actor" json:"actor"`
	Comment   string    `bson:"comment" json:"comment"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Case is an independent tracking entity. Its references to other entities
// are weak: lookup only, never enforced.
type Case struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CaseID      string             `bson:"caseID" json:"caseID"` // e.g. "case-a1b2c3d4"
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Priority    string             `bson:"priority" json:"priority"`
	Status      string             `bson:"status" json:"status"`
	WorkOrderID string             `bson:"workOrderID,omitempty" json:"workOrderID,omitempty"`
	InvoiceID   string             `bson:"invoiceID,omitempty" json:"invoiceID,omitempty"`
	CustomerID  string             `bson:"customerID,omitempty" json:"customerID,omitempty"`
	BranchID    string             `bson:"branchID" json:"branchID"`
	Activity    []CaseActivity     `bson:"activity" json:"activity"`
	CreatedBy   string             `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
