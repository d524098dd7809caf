// server/internal/invoice/engine_test.go
package invoice

import (
	"context"
	"errors"
	"sync"
	"testing"

	"garage-ops-api-server/internal/models"
	"garage-ops-api-server/internal/workorder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore mirrors the Mongo store's write-time guarantees: InsertInvoice
// enforces the one-active-invoice rule. afterCheck, when set, runs after
// every HasActiveInvoice so tests can force interleavings.
type fakeStore struct {
	mu         sync.Mutex
	orders     map[string]*models.WorkOrder
	invoices   map[string]*models.Invoice
	seq        int64
	afterCheck func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:   make(map[string]*models.WorkOrder),
		invoices: make(map[string]*models.Invoice),
	}
}

func cloneInvoice(inv *models.Invoice) *models.Invoice {
	clone := *inv
	clone.Lines = append([]models.LineItem(nil), inv.Lines...)
	clone.Payments = append([]models.Payment(nil), inv.Payments...)
	return &clone
}

func (s *fakeStore) GetWorkOrder(_ context.Context, workOrderID string) (*models.WorkOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wo, ok := s.orders[workOrderID]
	if !ok {
		return nil, workorder.ErrNotFound
	}
	return wo, nil
}

func (s *fakeStore) activeInvoiceLocked(workOrderID string) bool {
	for _, inv := range s.invoices {
		if inv.WorkOrderID == workOrderID && !inv.Void {
			return true
		}
	}
	return false
}

func (s *fakeStore) HasActiveInvoice(_ context.Context, workOrderID string) (bool, error) {
	s.mu.Lock()
	active := s.activeInvoiceLocked(workOrderID)
	s.mu.Unlock()
	if s.afterCheck != nil {
		s.afterCheck()
	}
	return active, nil
}

func (s *fakeStore) InsertInvoice(_ context.Context, inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeInvoiceLocked(inv.WorkOrderID) {
		return ErrAlreadyInvoiced
	}
	s.invoices[inv.InvoiceID] = cloneInvoice(inv)
	return nil
}

func (s *fakeStore) GetInvoice(_ context.Context, invoiceID string) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[invoiceID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneInvoice(inv), nil
}

func (s *fakeStore) UpdateInvoiceCAS(_ context.Context, inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.invoices[inv.InvoiceID]
	if !ok || stored.Version != inv.Version {
		return ErrConflict
	}
	inv.Version++
	s.invoices[inv.InvoiceID] = cloneInvoice(inv)
	return nil
}

func (s *fakeStore) NextInvoiceNumber(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq, nil
}

// seedCompletedOrder stores a completed oil change: $50 part, no labor.
func seedCompletedOrder(s *fakeStore) {
	s.orders["WO-000001"] = &models.WorkOrder{
		WorkOrderID: "WO-000001",
		CustomerID:  "cus-11111111",
		BranchID:    "main",
		Status:      models.WorkOrderCompleted,
		Parts: []models.Part{
			{
				PartID: "prt-1", Name: "Engine oil and filter", PriceCents: 5000,
				Stages: []models.Stage{
					{StageID: "stg-1", Status: models.StageCompleted, HoursActual: 0, RateCents: 0},
				},
			},
		},
		Version: 3,
	}
}

func TestGenerateRequiresCompletedOrder(t *testing.T) {
	store := newFakeStore()
	seedCompletedOrder(store)
	store.orders["WO-000001"].Status = models.WorkOrderInProgress
	engine := NewEngine(store)

	_, err := engine.Generate(context.Background(), "WO-000001", "accountant-1")
	assert.ErrorIs(t, err, ErrNotCompleted)
}

func TestGenerateComputesVATExactly(t *testing.T) {
	store := newFakeStore()
	seedCompletedOrder(store)
	engine := NewEngine(store)

	inv, err := engine.Generate(context.Background(), "WO-000001", "accountant-1")
	require.NoError(t, err)

	// $50.00 subtotal, 5% VAT = $2.50, total $52.50.
	assert.Equal(t, "INV-000001", inv.InvoiceID)
	assert.Equal(t, int64(5000), inv.SubtotalCents)
	assert.Equal(t, int64(250), inv.VATCents)
	assert.Equal(t, int64(5250), inv.TotalCents)
	assert.Equal(t, models.PaymentPending, inv.PaymentStatus)
	assert.Equal(t, int64(1), inv.Version)
	require.Len(t, inv.Lines, 1)
	assert.Equal(t, int64(5000), inv.Lines[0].TotalCents)
}

func TestGenerateIncludesLabor(t *testing.T) {
	store := newFakeStore()
	seedCompletedOrder(store)
	// 1.5 hours at $45.00/h snapshotted on the stage.
	store.orders["WO-000001"].Parts[0].Stages[0].HoursActual = 1.5
	store.orders["WO-000001"].Parts[0].Stages[0].RateCents = 4500
	engine := NewEngine(store)

	inv, err := engine.Generate(context.Background(), "WO-000001", "accountant-1")
	require.NoError(t, err)

	assert.Equal(t, int64(6750), inv.Lines[0].LaborCents)
	assert.Equal(t, int64(11750), inv.SubtotalCents)
	assert.Equal(t, int64(587), inv.VATCents) // truncated, never rounded up
	assert.Equal(t, int64(12337), inv.TotalCents)
}

func TestGenerateRejectsSecondInvoice(t *testing.T) {
	store := newFakeStore()
	seedCompletedOrder(store)
	engine := NewEngine(store)
	ctx := context.Background()

	first, err := engine.Generate(ctx, "WO-000001", "accountant-1")
	require.NoError(t, err)

	_, err = engine.Generate(ctx, "WO-000001", "accountant-1")
	assert.ErrorIs(t, err, ErrAlreadyInvoiced)

	// The original is untouched by the failed attempt.
	stored, err := store.GetInvoice(ctx, first.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, first.TotalCents, stored.TotalCents)
	assert.Equal(t, first.Version, stored.Version)

	// Voiding the invoice unblocks regeneration.
	store.invoices[first.InvoiceID].Void = true
	second, err := engine.Generate(ctx, "WO-000001", "accountant-1")
	require.NoError(t, err)
	assert.Equal(t, "INV-000002", second.InvoiceID)
}

func TestConcurrentGenerateCreatesOneInvoice(t *testing.T) {
	store := newFakeStore()
	seedCompletedOrder(store)
	engine := NewEngine(store)

	// Barrier: both goroutines observe "no active invoice" before either
	// inserts, the interleaving a slow round-trip produces.
	var checked sync.WaitGroup
	checked.Add(2)
	store.afterCheck = func() {
		checked.Done()
		checked.Wait()
	}

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := engine.Generate(context.Background(), "WO-000001", "accountant-1")
			results <- err
		}()
	}

	var successes, rejected int
	for i := 0; i < 2; i++ {
		err := <-results
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrAlreadyInvoiced):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, rejected)

	var active int
	for _, inv := range store.invoices {
		if !inv.Void {
			active++
		}
	}
	assert.Equal(t, 1, active)
}

func generateTestInvoice(t *testing.T) (*Engine, *fakeStore, *models.Invoice) {
	t.Helper()
	store := newFakeStore()
	seedCompletedOrder(store)
	engine := NewEngine(store)
	inv, err := engine.Generate(context.Background(), "WO-000001", "accountant-1")
	require.NoError(t, err)
	return engine, store, inv
}

func TestRecordPaymentTransitions(t *testing.T) {
	engine, _, inv := generateTestInvoice(t)
	ctx := context.Background()

	partial, err := engine.RecordPayment(ctx, inv.InvoiceID, 2000, "cash", "accountant-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPartial, partial.PaymentStatus)
	assert.Equal(t, int64(2000), partial.PaidCents())

	// Exact remainder flips to paid; one cent short stays partial.
	almost, err := engine.RecordPayment(ctx, inv.InvoiceID, 3249, "card", "accountant-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPartial, almost.PaymentStatus)

	paid, err := engine.RecordPayment(ctx, inv.InvoiceID, 1, "cash", "accountant-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, paid.TotalCents, paid.PaidCents())
}

func TestRecordPaymentRejectsOverpayment(t *testing.T) {
	engine, store, inv := generateTestInvoice(t)
	ctx := context.Background()

	_, err := engine.RecordPayment(ctx, inv.InvoiceID, inv.TotalCents+1, "cash", "accountant-1")
	assert.ErrorIs(t, err, ErrOverpayment)

	// Nothing was clamped or appended.
	stored, err := store.GetInvoice(ctx, inv.InvoiceID)
	require.NoError(t, err)
	assert.Empty(t, stored.Payments)
	assert.Equal(t, models.PaymentPending, stored.PaymentStatus)

	// The boundary itself is fine.
	_, err = engine.RecordPayment(ctx, inv.InvoiceID, inv.TotalCents, "transfer", "accountant-1")
	require.NoError(t, err)

	// Any amount on a fully paid invoice overpays.
	_, err = engine.RecordPayment(ctx, inv.InvoiceID, 1, "cash", "accountant-1")
	assert.ErrorIs(t, err, ErrOverpayment)
}

func TestRecordPaymentRejectsNonPositive(t *testing.T) {
	engine, _, inv := generateTestInvoice(t)
	ctx := context.Background()

	_, err := engine.RecordPayment(ctx, inv.InvoiceID, 0, "cash", "accountant-1")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = engine.RecordPayment(ctx, inv.InvoiceID, -500, "cash", "accountant-1")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestPaymentStatusFor(t *testing.T) {
	cases := []struct {
		name  string
		paid  int64
		total int64
		want  string
	}{
		{"nothing paid", 0, 5250, models.PaymentPending},
		{"partial", 1, 5250, models.PaymentPartial},
		{"one cent short", 5249, 5250, models.PaymentPartial},
		{"exact", 5250, 5250, models.PaymentPaid},
		{"zero total never reads paid", 0, 0, models.PaymentPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PaymentStatusFor(tc.paid, tc.total))
		})
	}
}
