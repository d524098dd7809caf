// server/internal/payroll/engine.go

// Package payroll computes timesheet-driven pay stubs. Disbursement is out
// of scope; this engine stops at issuing a stub. Like the invoice engine it
// fails loudly and leaves no partial state on any financial error.
package payroll

import (
	"errors"
	"math"
	"time"

	"garage-ops-api-server/internal/models"
	"garage-ops-api-server/internal/workorder"
)

var (
	ErrNoHours    = errors.New("timesheet has no worked hours")
	ErrBadPeriod  = errors.New("period end must be after period start")
	ErrDeductions = errors.New("deductions exceed gross pay")
)

// ComputeStub builds a draft pay stub from a timesheet. Gross is hours x
// rate in cents (rounded per entry is avoided: total hours are summed
// first); net is gross minus deductions and must not go negative.
func ComputeStub(employeeID string, periodStart, periodEnd time.Time, timesheet []models.TimesheetEntry, rateCents int64, deductions []models.Deduction) (*models.PayStub, error) {
	if !periodEnd.After(periodStart) {
		return nil, ErrBadPeriod
	}

	var hours float64
	for _, entry := range timesheet {
		if entry.Hours > 0 {
			hours += entry.Hours
		}
	}
	if hours <= 0 {
		return nil, ErrNoHours
	}

	gross := int64(math.Round(hours * float64(rateCents)))
	var withheld int64
	for _, d := range deductions {
		withheld += d.AmountCents
	}
	if withheld > gross {
		return nil, ErrDeductions
	}

	now := time.Now()
	return &models.PayStub{
		StubID:      workorder.NewID("stub"),
		EmployeeID:  employeeID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Timesheet:   timesheet,
		HoursTotal:  hours,
		RateCents:   rateCents,
		GrossCents:  gross,
		Deductions:  deductions,
		NetCents:    gross - withheld,
		Status:      models.PayStubDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
