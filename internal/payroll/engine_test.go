// server/internal/payroll/engine_test.go
package payroll

import (
	"testing"
	"time"

	"garage-ops-api-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	periodStart = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
)

func TestComputeStub(t *testing.T) {
	timesheet := []models.TimesheetEntry{
		{Date: periodStart, Hours: 8},
		{Date: periodStart.AddDate(0, 0, 1), Hours: 7.5},
		{Date: periodStart.AddDate(0, 0, 2), Hours: 0},
	}
	deductions := []models.Deduction{{Name: "Tool insurance", AmountCents: 2500}}

	stub, err := ComputeStub("technician-1", periodStart, periodEnd, timesheet, 4500, deductions)
	require.NoError(t, err)

	assert.Equal(t, "technician-1", stub.EmployeeID)
	assert.Equal(t, 15.5, stub.HoursTotal)
	assert.Equal(t, int64(69750), stub.GrossCents) // 15.5h x $45.00
	assert.Equal(t, int64(67250), stub.NetCents)
	assert.Equal(t, models.PayStubDraft, stub.Status)
	assert.NotEmpty(t, stub.StubID)
}

func TestComputeStubRoundsToNearestCent(t *testing.T) {
	timesheet := []models.TimesheetEntry{{Date: periodStart, Hours: 1.0 / 3.0}}

	stub, err := ComputeStub("technician-1", periodStart, periodEnd, timesheet, 4500, nil)
	require.NoError(t, err)

	// 0.333... x 4500 = 1500.0 cents after rounding.
	assert.Equal(t, int64(1500), stub.GrossCents)
}

func TestComputeStubRejectsBadPeriod(t *testing.T) {
	timesheet := []models.TimesheetEntry{{Date: periodStart, Hours: 8}}

	_, err := ComputeStub("technician-1", periodEnd, periodStart, timesheet, 4500, nil)
	assert.ErrorIs(t, err, ErrBadPeriod)

	_, err = ComputeStub("technician-1", periodStart, periodStart, timesheet, 4500, nil)
	assert.ErrorIs(t, err, ErrBadPeriod)
}

func TestComputeStubRejectsEmptyTimesheet(t *testing.T) {
	_, err := ComputeStub("technician-1", periodStart, periodEnd, nil, 4500, nil)
	assert.ErrorIs(t, err, ErrNoHours)

	// Negative entries do not count toward worked hours.
	timesheet := []models.TimesheetEntry{{Date: periodStart, Hours: -4}}
	_, err = ComputeStub("technician-1", periodStart, periodEnd, timesheet, 4500, nil)
	assert.ErrorIs(t, err, ErrNoHours)
}

func TestComputeStubRejectsExcessiveDeductions(t *testing.T) {
	timesheet := []models.TimesheetEntry{{Date: periodStart, Hours: 1}}
	deductions := []models.Deduction{{Name: "Advance repayment", AmountCents: 5000}}

	_, err := ComputeStub("technician-1", periodStart, periodEnd, timesheet, 4500, deductions)
	assert.ErrorIs(t, err, ErrDeductions)

	// Deductions equal to gross leave a zero net stub.
	deductions[0].AmountCents = 4500
	stub, err := ComputeStub("technician-1", periodStart, periodEnd, timesheet, 4500, deductions)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stub.NetCents)
}
