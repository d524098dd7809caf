// server/internal/models/quotation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Quotation statuses.
const (
	QuotationPending  = "pending"
	QuotationApproved = "approved"
	QuotationDeclined = "declined"
)

// QuotationItem snapshots the variation version it was built from, so a
// later catalog edit cannot change a quoted price.
type QuotationItem struct {
	VariationKey     string `bson:"variationKey" json:"variationKey"`
	VariationVersion int    `bson:"variationVersion" json:"variationVersion"`
	Name             string `bson:"name" json:"name"`
	PriceCents       int64  `bson:"priceCents" json:"priceCents"`
}

// Quotation is the output of the registration wizard's second step.
// Approval instantiates a work order from its items.
type Quotation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	QuotationID string             `bson:"quotationID" json:"quotationID"` // e.g. "qt-a1b2c3d4"
	CustomerID  string             `bson:"customerID" json:"customerID"`
	VehicleKey  string             `bson:"vehicleKey" json:"vehicleKey"`
	BranchID    string             `bson:"branchID" json:"branchID"`
	Items       []QuotationItem    `bson:"items" json:"items"`
	TotalCents  int64              `bson:"totalCents" json:"totalCents"`
	Status      string             `bson:"status" json:"status"`
	WorkOrderID string             `bson:"workOrderID,omitempty" json:"workOrderID,omitempty"`
	CreatedBy   string             `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
