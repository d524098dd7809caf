// server/internal/models/workorder.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stage statuses.
const (
	StagePending    = "pending"
	StageInProgress = "in_progress"
	StageBlocked    = "blocked"
	StageCompleted  = "completed"
)

// WorkOrder statuses. The overall status is derived from the stages; it is
// persisted only so list queries can filter without re-deriving.
const (
	WorkOrderPending    = "pending"
	WorkOrderInProgress = "in_progress"
	WorkOrderPendingQA  = "pending_qa"
	WorkOrderCompleted  = "completed"
	WorkOrderCancelled  = "cancelled"
)

// Stage is a single trackable unit of labor within a part.
type Stage struct {
	StageID         string  `bson:"stageID" json:"stageID"` // e.g. "stg-a1b2c3d4"
	Name            string  `bson:"name" json:"name"`
	Order           int     `bson:"order" json:"order"`
	Status          string  `bson:"status" json:"status"`
	TechnicianID    string  `bson:"technicianID,omitempty" json:"technicianID,omitempty"`
	RateCents       int64   `bson:"rateCents" json:"rateCents"` // technician rate snapshotted at assignment
	HoursActual     float64 `bson:"hoursActual" json:"hoursActual"`
	Ready           bool    `bson:"ready" json:"ready"` // cleared by QA rejection, restored by mark-ready
	BlockedReason   string  `bson:"blockedReason,omitempty" json:"blockedReason,omitempty"`
}

// Part groups the stages instantiated from one variation part template.
type Part struct {
	PartID           string  `bson:"partID" json:"partID"` // e.g. "prt-a1b2c3d4"
	Name             string  `bson:"name" json:"name"`
	VariationKey     string  `bson:"variationKey" json:"variationKey"`
	VariationVersion int     `bson:"variationVersion" json:"variationVersion"`
	PriceCents       int64   `bson:"priceCents" json:"priceCents"`
	Stages           []Stage `bson:"stages" json:"stages"`
}

// CancelApproval records who authorized a cancellation and why. A work order
// cannot move to cancelled without one.
type CancelApproval struct {
	ApprovedBy string    `bson:"approvedBy" json:"approvedBy"`
	Reason     string    `bson:"reason" json:"reason"`
	ApprovedAt time.Time `bson:"approvedAt" json:"approvedAt"`
}

// WorkOrder is the root aggregate of a vehicle visit. Version backs the
// compare-and-swap writes: every mutation filters on the version it read.
type WorkOrder struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkOrderID    string             `bson:"workOrderID" json:"workOrderID"` // "WO-000001", unique, monotonic
	CustomerID     string             `bson:"customerID" json:"customerID"`
	VehicleKey     string             `bson:"vehicleKey" json:"vehicleKey"`
	BranchID       string             `bson:"branchID" json:"branchID"`
	QuotationID    string             `bson:"quotationID,omitempty" json:"quotationID,omitempty"`
	Status         string             `bson:"status" json:"status"`
	Parts          []Part             `bson:"parts" json:"parts"`
	QASubmitted    bool               `bson:"qaSubmitted" json:"qaSubmitted"`
	Cancel         *CancelApproval    `bson:"cancel,omitempty" json:"cancel,omitempty"`
	Version        int64              `bson:"version" json:"version"`
	CreatedBy      string             `bson:"createdBy" json:"createdBy"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// StageLog is one entry of the append-only audit trail. Entries live in
// their own collection and are only ever inserted, never updated.
type StageLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkOrderID string             `bson:"workOrderID" json:"workOrderID"`
	PartID      string             `bson:"partID" json:"partID"`
	StageID     string             `bson:"stageID" json:"stageID"`
	Action      string             `bson:"action" json:"action"` // assign, start, complete, report_error, resolve_error, mark_ready, cancel
	Actor       string             `bson:"actor" json:"actor"`
	Note        string             `bson:"note,omitempty" json:"note,omitempty"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
}
