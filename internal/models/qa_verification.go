// server/internal/models/qa_verification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QA decision values.
const (
	QAPending  = "pending"
	QAApproved = "approved"
	QARejected = "rejected"
)

// QAVerification is one quality-review attempt for a work order. A new
// document is created per completion attempt; an approved one is immutable.
type QAVerification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	QAID        string             `bson:"qaID" json:"qaID"` // e.g. "qa-a1b2c3d4"
	WorkOrderID string             `bson:"workOrderID" json:"workOrderID"`
	ReviewerID  string             `bson:"reviewerID,omitempty" json:"reviewerID,omitempty"`
	Decision    string             `bson:"decision" json:"decision"`
	Photos      []MediaPointer     `bson:"photos,omitempty" json:"photos,omitempty"` // 3 to 5 required for approval
	Comments    string             `bson:"comments,omitempty" json:"comments,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	DecidedAt   *time.Time         `bson:"decidedAt,omitempty" json:"decidedAt,omitempty"`
}
