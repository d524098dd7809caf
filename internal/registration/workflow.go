// server/internal/registration/workflow.go

// Package registration implements the two-step intake wizard: step one
// creates a customer with their first vehicle, step two builds a quotation
// from selected catalog variations. Approving the quotation instantiates
// the work order.
package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"garage-ops-api-server/internal/models"
	"garage-ops-api-server/internal/workorder"
)

var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrVehicleNotFound   = errors.New("vehicle not found on customer")
	ErrVariationNotFound = errors.New("variation not found")
	ErrQuotationNotFound = errors.New("quotation not found")
	ErrQuotationDecided  = errors.New("quotation is already decided")
	ErrNoItems           = errors.New("quotation requires at least one variation")
)

// Store is the persistence boundary of the wizard.
type Store interface {
	GetCustomer(ctx context.Context, customerID string) (*models.Customer, error)
	InsertCustomer(ctx context.Context, customer *models.Customer) error
	// CurrentVariation returns the current version for a catalog key.
	CurrentVariation(ctx context.Context, variationKey string) (*models.Variation, error)
	// VariationAt returns a specific pinned version.
	VariationAt(ctx context.Context, variationKey string, version int) (*models.Variation, error)
	InsertQuotation(ctx context.Context, q *models.Quotation) error
	GetQuotation(ctx context.Context, quotationID string) (*models.Quotation, error)
	// UpdateQuotation replaces the quotation only while it is still pending
	// and returns ErrQuotationDecided when a concurrent decision won.
	UpdateQuotation(ctx context.Context, q *models.Quotation) error
	InsertWorkOrder(ctx context.Context, wo *models.WorkOrder) error
	NextWorkOrderNumber(ctx context.Context) (int64, error)
}

type Workflow struct {
	store Store
}

func NewWorkflow(store Store) *Workflow {
	return &Workflow{store: store}
}

// VehicleInput is the intake form for one vehicle.
type VehicleInput struct {
	Make  string
	Model string
	Year  int
	VIN   string
	Plate string
}

// RegisterCustomer runs step one of the wizard.
func (w *Workflow) RegisterCustomer(ctx context.Context, name, phone, email, branchID string, vehicle VehicleInput) (*models.Customer, error) {
	customer := &models.Customer{
		CustomerID: workorder.NewID("cus"),
		Name:       name,
		Phone:      phone,
		Email:      email,
		BranchID:   branchID,
		Vehicles: []models.Vehicle{{
			VehicleKey: workorder.NewID("veh"),
			Make:       vehicle.Make,
			Model:      vehicle.Model,
			Year:       vehicle.Year,
			VIN:        vehicle.VIN,
			Plate:      vehicle.Plate,
			AddedAt:    time.Now(),
		}},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := w.store.InsertCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// CreateQuotation runs step two: it validates the customer and vehicle,
// snapshots the current version of each selected variation and totals the
// quoted prices.
func (w *Workflow) CreateQuotation(ctx context.Context, customerID, vehicleKey string, variationKeys []string, actor string) (*models.Quotation, error) {
	if len(variationKeys) == 0 {
		return nil, ErrNoItems
	}
	customer, err := w.store.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	found := false
	for _, v := range customer.Vehicles {
		if v.VehicleKey == vehicleKey {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrVehicleNotFound
	}

	var items []models.QuotationItem
	var total int64
	for _, key := range variationKeys {
		variation, err := w.store.CurrentVariation(ctx, key)
		if err != nil {
			return nil, err
		}
		items = append(items, models.QuotationItem{
			VariationKey:     variation.VariationKey,
			VariationVersion: variation.Version,
			Name:             variation.Name,
			PriceCents:       variation.PriceCents,
		})
		total += variation.PriceCents
	}

	quotation := &models.Quotation{
		QuotationID: workorder.NewID("qt"),
		CustomerID:  customerID,
		VehicleKey:  vehicleKey,
		BranchID:    customer.BranchID,
		Items:       items,
		TotalCents:  total,
		Status:      models.QuotationPending,
		CreatedBy:   actor,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := w.store.InsertQuotation(ctx, quotation); err != nil {
		return nil, err
	}
	return quotation, nil
}

// ApproveQuotation instantiates a work order from the quotation: one part
// per variation part template at the pinned version, every stage pending.
// The quotation is claimed before the work order is inserted, so of two
// concurrent approvals exactly one mints a work order and the other gets
// ErrQuotationDecided.
func (w *Workflow) ApproveQuotation(ctx context.Context, quotationID, actor string) (*models.WorkOrder, error) {
	quotation, err := w.store.GetQuotation(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if quotation.Status != models.QuotationPending {
		return nil, ErrQuotationDecided
	}

	var parts []models.Part
	for _, item := range quotation.Items {
		variation, err := w.store.VariationAt(ctx, item.VariationKey, item.VariationVersion)
		if err != nil {
			return nil, err
		}
		for _, tmpl := range variation.Parts {
			part := models.Part{
				PartID:           workorder.NewID("prt"),
				Name:             tmpl.Name,
				VariationKey:     variation.VariationKey,
				VariationVersion: variation.Version,
				PriceCents:       tmpl.PriceCents,
			}
			for _, st := range tmpl.Stages {
				part.Stages = append(part.Stages, models.Stage{
					StageID: workorder.NewID("stg"),
					Name:    st.Name,
					Order:   st.Order,
					Status:  models.StagePending,
				})
			}
			parts = append(parts, part)
		}
	}

	seq, err := w.store.NextWorkOrderNumber(ctx)
	if err != nil {
		return nil, err
	}
	wo := &models.WorkOrder{
		WorkOrderID: fmt.Sprintf("WO-%06d", seq),
		CustomerID:  quotation.CustomerID,
		VehicleKey:  quotation.VehicleKey,
		BranchID:    quotation.BranchID,
		QuotationID: quotation.QuotationID,
		Status:      models.WorkOrderPending,
		Parts:       parts,
		Version:     1,
		CreatedBy:   actor,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	quotation.Status = models.QuotationApproved
	quotation.WorkOrderID = wo.WorkOrderID
	quotation.UpdatedAt = time.Now()
	if err := w.store.UpdateQuotation(ctx, quotation); err != nil {
		return nil, err
	}

	if err := w.store.InsertWorkOrder(ctx, wo); err != nil {
		return nil, err
	}
	return wo, nil
}

// DeclineQuotation marks a pending quotation declined.
func (w *Workflow) DeclineQuotation(ctx context.Context, quotationID string) error {
	quotation, err := w.store.GetQuotation(ctx, quotationID)
	if err != nil {
		return err
	}
	if quotation.Status != models.QuotationPending {
		return ErrQuotationDecided
	}
	quotation.Status = models.QuotationDeclined
	quotation.UpdatedAt = time.Now()
	return w.store.UpdateQuotation(ctx, quotation)
}
