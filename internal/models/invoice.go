// server/internal/models/invoice.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invoice payment statuses.
const (
	PaymentPending = "pending"
	PaymentPartial = "partial"
	PaymentPaid    = "paid"
)

// VATRateBP is the fixed VAT rate in basis points (5%).
const VATRateBP = 500

// LineItem is one billed part: catalog price plus labor across its stages.
type LineItem struct {
	PartID      string `bson:"partID" json:"partID"`
	Description string `bson:"description" json:"description"`
	PartCents   int64  `bson:"partCents" json:"partCents"`
	LaborCents  int64  `bson:"laborCents" json:"laborCents"`
	TotalCents  int64  `bson:"totalCents" json:"totalCents"`
}

// Payment is one recorded payment against an invoice.
type Payment struct {
	PaymentID   string    `bson:"paymentID" json:"paymentID"` // e.g. "pay-a1b2c3d4"
	AmountCents int64     `bson:"amountCents" json:"amountCents"`
	Method      string    `bson:"method" json:"method"` // cash, card, transfer
	RecordedBy  string    `bson:"recordedBy" json:"recordedBy"`
	RecordedAt  time.Time `bson:"recordedAt" json:"recordedAt"`
}

// Invoice is generated from exactly one completed work order. All amounts
// are integer cents so the payment-status invariant compares exactly.
// Version backs compare-and-swap payment writes.
type Invoice struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InvoiceID     string             `bson:"invoiceID" json:"invoiceID"` // "INV-000001"
	WorkOrderID   string             `bson:"workOrderID" json:"workOrderID"`
	CustomerID    string             `bson:"customerID" json:"customerID"`
	BranchID      string             `bson:"branchID" json:"branchID"`
	Lines         []LineItem         `bson:"lines" json:"lines"`
	SubtotalCents int64              `bson:"subtotalCents" json:"subtotalCents"`
	VATCents      int64              `bson:"vatCents" json:"vatCents"`
	TotalCents    int64              `bson:"totalCents" json:"totalCents"`
	Payments      []Payment          `bson:"payments" json:"payments"`
	PaymentStatus string             `bson:"paymentStatus" json:"paymentStatus"`
	Void          bool               `bson:"void" json:"void"` // a voided invoice no longer blocks regeneration
	Version       int64              `bson:"version" json:"version"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PaidCents sums the recorded payments.
func (inv *Invoice) PaidCents() int64 {
	var sum int64
	for _, p := range inv.Payments {
		sum += p.AmountCents
	}
	return sum
}
