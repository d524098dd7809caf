// server/internal/invoice/engine.go

// Package invoice derives billing from completed work orders and keeps the
// payment invariants exact: amounts are integer cents, sum(payments) never
// exceeds the total, and the payment status is a pure function of
// (paid, total). All operations are all-or-nothing.
package invoice

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"garage-ops-api-server/internal/models"
	"garage-ops-api-server/internal/workorder"
)

var (
	ErrNotFound        = errors.New("invoice not found")
	ErrConflict        = errors.New("invoice was modified concurrently")
	ErrAlreadyInvoiced = errors.New("work order already has an active invoice")
	ErrNotCompleted    = errors.New("work order is not completed")
	ErrOverpayment     = errors.New("payment would exceed the invoice total")
	ErrInvalidAmount   = errors.New("payment amount must be positive")
)

// Store is the persistence boundary of the invoice engine.
type Store interface {
	GetWorkOrder(ctx context.Context, workOrderID string) (*models.WorkOrder, error)
	// HasActiveInvoice reports whether a non-void invoice exists for the
	// work order.
	HasActiveInvoice(ctx context.Context, workOrderID string) (bool, error)
	// InsertInvoice stores a new invoice. Implementations must enforce at
	// most one non-void invoice per work order at write time and return
	// ErrAlreadyInvoiced when a concurrent writer got there first.
	InsertInvoice(ctx context.Context, inv *models.Invoice) error
	GetInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error)
	// UpdateInvoiceCAS writes back with a version check; ErrConflict when
	// another writer won.
	UpdateInvoiceCAS(ctx context.Context, inv *models.Invoice) error
	// NextInvoiceNumber returns the next monotonic sequence value.
	NextInvoiceNumber(ctx context.Context) (int64, error)
}

type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// laborCents rounds hours x rate to the nearest cent.
func laborCents(hours float64, rateCents int64) int64 {
	return int64(math.Round(hours * float64(rateCents)))
}

// PaymentStatusFor is the pure derivation required by the invariant:
// paid iff cumulative == total, partial iff 0 < cumulative < total.
func PaymentStatusFor(paidCents, totalCents int64) string {
	switch {
	case paidCents == totalCents && totalCents > 0:
		return models.PaymentPaid
	case paidCents > 0 && paidCents < totalCents:
		return models.PaymentPartial
	default:
		return models.PaymentPending
	}
}

// Generate derives an invoice from a completed work order. Line items are
// part price plus labor (hours x snapshotted technician rate) per stage;
// VAT is a fixed 5% of the subtotal. The active-invoice check is advisory
// only; the store's insert is the serialization point, so two concurrent
// calls produce exactly one invoice and one ErrAlreadyInvoiced.
func (e *Engine) Generate(ctx context.Context, workOrderID, actor string) (*models.Invoice, error) {
	wo, err := e.store.GetWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if wo.Status != models.WorkOrderCompleted {
		return nil, ErrNotCompleted
	}
	exists, err := e.store.HasActiveInvoice(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyInvoiced
	}

	var lines []models.LineItem
	var subtotal int64
	for _, part := range wo.Parts {
		var labor int64
		for _, stage := range part.Stages {
			labor += laborCents(stage.HoursActual, stage.RateCents)
		}
		line := models.LineItem{
			PartID:      part.PartID,
			Description: part.Name,
			PartCents:   part.PriceCents,
			LaborCents:  labor,
			TotalCents:  part.PriceCents + labor,
		}
		lines = append(lines, line)
		subtotal += line.TotalCents
	}

	vat := subtotal * models.VATRateBP / 10000
	seq, err := e.store.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	inv := &models.Invoice{
		InvoiceID:     fmt.Sprintf("INV-%06d", seq),
		WorkOrderID:   wo.WorkOrderID,
		CustomerID:    wo.CustomerID,
		BranchID:      wo.BranchID,
		Lines:         lines,
		SubtotalCents: subtotal,
		VATCents:      vat,
		TotalCents:    subtotal + vat,
		Payments:      []models.Payment{},
		PaymentStatus: models.PaymentPending,
		Version:       1,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := e.store.InsertInvoice(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// RecordPayment appends a payment and recomputes the derived status. An
// amount that would push the cumulative past the total is rejected, never
// clamped; the stored invoice is untouched on any failure.
func (e *Engine) RecordPayment(ctx context.Context, invoiceID string, amountCents int64, method, actor string) (*models.Invoice, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	inv, err := e.store.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.PaidCents()+amountCents > inv.TotalCents {
		return nil, ErrOverpayment
	}

	inv.Payments = append(inv.Payments, models.Payment{
		PaymentID:   workorder.NewID("pay"),
		AmountCents: amountCents,
		Method:      method,
		RecordedBy:  actor,
		RecordedAt:  time.Now(),
	})
	inv.PaymentStatus = PaymentStatusFor(inv.PaidCents(), inv.TotalCents)
	if err := e.store.UpdateInvoiceCAS(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}
