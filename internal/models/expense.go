// server/internal/models/expense.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Expense is a garage operating expense. The receipt pointer is only set
// after the upload has been acknowledged by the storage service.
type Expense struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExpenseID   string             `bson:"expenseID" json:"expenseID"` // e.g. "exp-a1b2c3d4"
	Category    string             `bson:"category" json:"category"`   // parts, utilities, rent, misc
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	AmountCents int64              `bson:"amountCents" json:"amountCents"`
	Receipt     *MediaPointer      `bson:"receipt,omitempty" json:"receipt,omitempty"`
	BranchID    string             `bson:"branchID" json:"branchID"`
	RecordedBy  string             `bson:"recordedBy" json:"recordedBy"`
	IncurredAt  time.Time          `bson:"incurredAt" json:"incurredAt"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
