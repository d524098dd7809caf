// server/internal/models/payroll.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pay stub statuses. Disbursement is out of scope; stubs stop at issued.
const (
	PayStubDraft  = "draft"
	PayStubIssued = "issued"
)

// TimesheetEntry is one worked interval reported for an employee.
type TimesheetEntry struct {
	Date  time.Time `bson:"date" json:"date"`
	Hours float64   `bson:"hours" json:"hours"`
}

// Deduction is a named amount withheld from gross pay.
type Deduction struct {
	Name        string `bson:"name" json:"name"`
	AmountCents int64  `bson:"amountCents" json:"amountCents"`
}

// PayStub is a computed pay record for one employee and period.
type PayStub struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StubID      string             `bson:"stubID" json:"stubID"` // e.g. "stub-a1b2c3d4"
	EmployeeID  string             `bson:"employeeID" json:"employeeID"`
	PeriodStart time.Time          `bson:"periodStart" json:"periodStart"`
	PeriodEnd   time.Time          `bson:"periodEnd" json:"periodEnd"`
	Timesheet   []TimesheetEntry   `bson:"timesheet" json:"timesheet"`
	HoursTotal  float64            `bson:"hoursTotal" json:"hoursTotal"`
	RateCents   int64              `bson:"rateCents" json:"rateCents"`
	GrossCents  int64              `bson:"grossCents" json:"grossCents"`
	Deductions  []Deduction        `bson:"deductions" json:"deductions"`
	NetCents    int64              `bson:"netCents" json:"netCents"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
