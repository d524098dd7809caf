// server/internal/registration/workflow_test.go
package registration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"garage-ops-api-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore mirrors the Mongo store's claim semantics: UpdateQuotation only
// matches a still-pending quotation. afterGet, when set, runs after every
// GetQuotation so tests can force interleavings.
type fakeStore struct {
	mu         sync.Mutex
	customers  map[string]*models.Customer
	variations []*models.Variation
	quotations map[string]*models.Quotation
	workorders map[string]*models.WorkOrder
	seq        int64
	afterGet   func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers:  make(map[string]*models.Customer),
		quotations: make(map[string]*models.Quotation),
		workorders: make(map[string]*models.WorkOrder),
	}
}

func (s *fakeStore) GetCustomer(_ context.Context, customerID string) (*models.Customer, error) {
	customer, ok := s.customers[customerID]
	if !ok || customer.Disabled {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

func (s *fakeStore) InsertCustomer(_ context.Context, customer *models.Customer) error {
	s.customers[customer.CustomerID] = customer
	return nil
}

func (s *fakeStore) CurrentVariation(_ context.Context, variationKey string) (*models.Variation, error) {
	for _, v := range s.variations {
		if v.VariationKey == variationKey && v.Current {
			return v, nil
		}
	}
	return nil, ErrVariationNotFound
}

func (s *fakeStore) VariationAt(_ context.Context, variationKey string, version int) (*models.Variation, error) {
	for _, v := range s.variations {
		if v.VariationKey == variationKey && v.Version == version {
			return v, nil
		}
	}
	return nil, ErrVariationNotFound
}

func (s *fakeStore) InsertQuotation(_ context.Context, q *models.Quotation) error {
	s.quotations[q.QuotationID] = q
	return nil
}

func (s *fakeStore) GetQuotation(_ context.Context, quotationID string) (*models.Quotation, error) {
	s.mu.Lock()
	q, ok := s.quotations[quotationID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrQuotationNotFound
	}
	clone := *q
	s.mu.Unlock()
	if s.afterGet != nil {
		s.afterGet()
	}
	return &clone, nil
}

func (s *fakeStore) UpdateQuotation(_ context.Context, q *models.Quotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.quotations[q.QuotationID]
	if !ok || stored.Status != models.QuotationPending {
		return ErrQuotationDecided
	}
	s.quotations[q.QuotationID] = q
	return nil
}

func (s *fakeStore) InsertWorkOrder(_ context.Context, wo *models.WorkOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workorders[wo.WorkOrderID] = wo
	return nil
}

func (s *fakeStore) NextWorkOrderNumber(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq, nil
}

func seedOilChange(s *fakeStore) {
	s.variations = append(s.variations, &models.Variation{
		VariationKey: "oil-change",
		Version:      1,
		Name:         "Oil Change",
		PriceCents:   5000,
		Parts: []models.PartTemplate{
			{Name: "Engine oil and filter", PriceCents: 5000, Stages: []models.StageTemplate{
				{Name: "Drain and replace", Order: 0},
			}},
		},
		Current: true,
	})
}

// reviseOilChange retires v1 and adds a pricier v2.
func reviseOilChange(s *fakeStore) {
	for _, v := range s.variations {
		if v.VariationKey == "oil-change" {
			v.Current = false
		}
	}
	s.variations = append(s.variations, &models.Variation{
		VariationKey: "oil-change",
		Version:      2,
		Name:         "Oil Change",
		PriceCents:   6500,
		Parts: []models.PartTemplate{
			{Name: "Synthetic oil and filter", PriceCents: 6500, Stages: []models.StageTemplate{
				{Name: "Drain and replace", Order: 0},
				{Name: "Top-up check", Order: 1},
			}},
		},
		Current: true,
	})
}

func registerTestCustomer(t *testing.T, w *Workflow) *models.Customer {
	t.Helper()
	customer, err := w.RegisterCustomer(context.Background(), "Jo Nguyen", "555-0101", "jo@example.com", "main", VehicleInput{
		Make: "Toyota", Model: "Hilux", Year: 2019, VIN: "JTEBU5JR8A5123456", Plate: "ABC-123",
	})
	require.NoError(t, err)
	return customer
}

func TestRegisterCustomerCreatesFirstVehicle(t *testing.T) {
	store := newFakeStore()
	w := NewWorkflow(store)

	customer := registerTestCustomer(t, w)

	assert.NotEmpty(t, customer.CustomerID)
	require.Len(t, customer.Vehicles, 1)
	assert.NotEmpty(t, customer.Vehicles[0].VehicleKey)
	assert.Equal(t, "JTEBU5JR8A5123456", customer.Vehicles[0].VIN)
	assert.Contains(t, store.customers, customer.CustomerID)
}

func TestCreateQuotationSnapshotsCurrentVersion(t *testing.T) {
	store := newFakeStore()
	seedOilChange(store)
	w := NewWorkflow(store)
	ctx := context.Background()

	customer := registerTestCustomer(t, w)
	vehicleKey := customer.Vehicles[0].VehicleKey

	quotation, err := w.CreateQuotation(ctx, customer.CustomerID, vehicleKey, []string{"oil-change"}, "receptionist-1")
	require.NoError(t, err)

	assert.Equal(t, models.QuotationPending, quotation.Status)
	assert.Equal(t, int64(5000), quotation.TotalCents)
	require.Len(t, quotation.Items, 1)
	assert.Equal(t, 1, quotation.Items[0].VariationVersion)
}

func TestCreateQuotationValidation(t *testing.T) {
	store := newFakeStore()
	seedOilChange(store)
	w := NewWorkflow(store)
	ctx := context.Background()

	customer := registerTestCustomer(t, w)
	vehicleKey := customer.Vehicles[0].VehicleKey

	_, err := w.CreateQuotation(ctx, customer.CustomerID, vehicleKey, nil, "receptionist-1")
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = w.CreateQuotation(ctx, "cus-missing", vehicleKey, []string{"oil-change"}, "receptionist-1")
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = w.CreateQuotation(ctx, customer.CustomerID, "veh-missing", []string{"oil-change"}, "receptionist-1")
	assert.ErrorIs(t, err, ErrVehicleNotFound)

	_, err = w.CreateQuotation(ctx, customer.CustomerID, vehicleKey, []string{"unknown-service"}, "receptionist-1")
	assert.ErrorIs(t, err, ErrVariationNotFound)
}

func TestApproveQuotationUsesPinnedVersion(t *testing.T) {
	store := newFakeStore()
	seedOilChange(store)
	w := NewWorkflow(store)
	ctx := context.Background()

	customer := registerTestCustomer(t, w)
	quotation, err := w.CreateQuotation(ctx, customer.CustomerID, customer.Vehicles[0].VehicleKey, []string{"oil-change"}, "receptionist-1")
	require.NoError(t, err)

	// A catalog revision between quote and approval must not change the work.
	reviseOilChange(store)

	wo, err := w.ApproveQuotation(ctx, quotation.QuotationID, "supervisor-1")
	require.NoError(t, err)

	assert.Equal(t, "WO-000001", wo.WorkOrderID)
	assert.Equal(t, models.WorkOrderPending, wo.Status)
	assert.Equal(t, int64(1), wo.Version)
	require.Len(t, wo.Parts, 1)
	assert.Equal(t, 1, wo.Parts[0].VariationVersion)
	assert.Equal(t, int64(5000), wo.Parts[0].PriceCents)
	require.Len(t, wo.Parts[0].Stages, 1)
	assert.Equal(t, models.StagePending, wo.Parts[0].Stages[0].Status)

	stored := store.quotations[quotation.QuotationID]
	assert.Equal(t, models.QuotationApproved, stored.Status)
	assert.Equal(t, wo.WorkOrderID, stored.WorkOrderID)
}

func TestApproveQuotationOnlyOnce(t *testing.T) {
	store := newFakeStore()
	seedOilChange(store)
	w := NewWorkflow(store)
	ctx := context.Background()

	customer := registerTestCustomer(t, w)
	quotation, err := w.CreateQuotation(ctx, customer.CustomerID, customer.Vehicles[0].VehicleKey, []string{"oil-change"}, "receptionist-1")
	require.NoError(t, err)

	_, err = w.ApproveQuotation(ctx, quotation.QuotationID, "supervisor-1")
	require.NoError(t, err)

	_, err = w.ApproveQuotation(ctx, quotation.QuotationID, "supervisor-1")
	assert.ErrorIs(t, err, ErrQuotationDecided)
	assert.ErrorIs(t, w.DeclineQuotation(ctx, quotation.QuotationID), ErrQuotationDecided)
}

func TestConcurrentApprovalMintsOneWorkOrder(t *testing.T) {
	store := newFakeStore()
	seedOilChange(store)
	w := NewWorkflow(store)
	ctx := context.Background()

	customer := registerTestCustomer(t, w)
	quotation, err := w.CreateQuotation(ctx, customer.CustomerID, customer.Vehicles[0].VehicleKey, []string{"oil-change"}, "receptionist-1")
	require.NoError(t, err)

	// Barrier: both goroutines read the quotation as pending before either
	// claims it.
	var loaded sync.WaitGroup
	loaded.Add(2)
	store.afterGet = func() {
		loaded.Done()
		loaded.Wait()
	}

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := w.ApproveQuotation(ctx, quotation.QuotationID, "supervisor-1")
			results <- err
		}()
	}

	var successes, rejected int
	for i := 0; i < 2; i++ {
		err := <-results
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrQuotationDecided):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, rejected)
	assert.Len(t, store.workorders, 1)

	stored := store.quotations[quotation.QuotationID]
	assert.Equal(t, models.QuotationApproved, stored.Status)
	assert.Contains(t, store.workorders, stored.WorkOrderID)
}

func TestDeclineQuotation(t *testing.T) {
	store := newFakeStore()
	seedOilChange(store)
	w := NewWorkflow(store)
	ctx := context.Background()

	customer := registerTestCustomer(t, w)
	quotation, err := w.CreateQuotation(ctx, customer.CustomerID, customer.Vehicles[0].VehicleKey, []string{"oil-change"}, "receptionist-1")
	require.NoError(t, err)

	require.NoError(t, w.DeclineQuotation(ctx, quotation.QuotationID))
	assert.Equal(t, models.QuotationDeclined, store.quotations[quotation.QuotationID].Status)
	assert.Empty(t, store.workorders)

	_, err = w.ApproveQuotation(ctx, quotation.QuotationID, "supervisor-1")
	assert.ErrorIs(t, err, ErrQuotationDecided)
}
