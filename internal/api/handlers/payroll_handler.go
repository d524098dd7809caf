// server/internal/api/handlers/payroll_handler.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"garage-ops-api-server/internal/models"
	"garage-ops-api-server/internal/payroll"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type PayrollHandler struct {
	DB       *mongo.Database
	Notifier *Notifier
}

type TimesheetEntryRequest struct {
	Date  time.Time `json:"date" binding:"required"`
	Hours float64   `json:"hours" binding:"required"`
}

type DeductionRequest struct {
	Name        string `json:"name" binding:"required"`
	AmountCents int64  `json:"amountCents" binding:"required,min=1"`
}

type ComputeStubRequest struct {
	EmployeeID  string                  `json:"employeeID" binding:"required"`
	PeriodStart time.Time               `json:"periodStart" binding:"required"`
	PeriodEnd   time.Time               `json:"periodEnd" binding:"required"`
	Timesheet   []TimesheetEntryRequest `json:"timesheet" binding:"required,min=1"`
	Deductions  []DeductionRequest      `json:"deductions"`
}

// ComputeStub validates the employee, computes a draft stub from the
// timesheet at the employee's current hourly rate and persists it.
func (h *PayrollHandler) ComputeStub(c *gin.Context) {
	var req ComputeStubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	var employee models.User
	err := h.DB.Collection("users").FindOne(context.Background(), bson.M{"userID": req.EmployeeID, "status": "active"}).Decode(&employee)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, KindNotFound, "Employee not found")
		} else {
			respondError(c, http.StatusInternalServerError, KindDependency, "Failed to retrieve employee")
		}
		return
	}

	timesheet := make([]models.TimesheetEntry, 0, len(req.Timesheet))
	for _, entry := range req.Timesheet {
		timesheet = append(timesheet, models.TimesheetEntry{Date: entry.Date, Hours: entry.Hours})
	}
	deductions := make([]models.Deduction, 0, len(req.Deductions))
	for _, d := range req.Deductions {
		deductions = append(deductions, models.Deduction{Name: d.Name, AmountCents: d.AmountCents})
	}

	stub, err := payroll.ComputeStub(req.EmployeeID, req.PeriodStart, req.PeriodEnd, timesheet, employee.HourlyRateCents, deductions)
	if err != nil {
		switch {
		case errors.Is(err, payroll.ErrNoHours), errors.Is(err, payroll.ErrBadPeriod), errors.Is(err, payroll.ErrDeductions):
			respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, KindDependency, "Failed to compute pay stub")
		}
		return
	}

	if _, err := h.DB.Collection("paystubs").InsertOne(context.Background(), stub); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to persist pay stub")
		return
	}
	c.JSON(http.StatusCreated, stub)
}

func (h *PayrollHandler) ListStubs(c *gin.Context) {
	filter := bson.M{}
	if employee := c.Query("employee"); employee != "" {
		filter["employeeID"] = employee
	}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := h.DB.Collection("paystubs").Find(context.Background(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to query pay stubs")
		return
	}
	defer cursor.Close(context.Background())

	var stubs []models.PayStub
	if err := cursor.All(context.Background(), &stubs); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to decode pay stubs")
		return
	}
	if stubs == nil {
		stubs = []models.PayStub{}
	}
	c.JSON(http.StatusOK, stubs)
}

func (h *PayrollHandler) GetStub(c *gin.Context) {
	var stub models.PayStub
	err := h.DB.Collection("paystubs").FindOne(context.Background(), bson.M{"stubID": c.Param("id")}).Decode(&stub)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, KindNotFound, "Pay stub not found")
		} else {
			respondError(c, http.StatusInternalServerError, KindDependency, "Failed to retrieve pay stub")
		}
		return
	}
	c.JSON(http.StatusOK, stub)
}

// IssueStub moves a draft stub to issued. Issued stubs are final; the
// status filter makes a second issue a no-match.
func (h *PayrollHandler) IssueStub(c *gin.Context) {
	stubID := c.Param("id")

	var stub models.PayStub
	err := h.DB.Collection("paystubs").FindOneAndUpdate(
		context.Background(),
		bson.M{"stubID": stubID, "status": models.PayStubDraft},
		bson.M{"$set": bson.M{"status": models.PayStubIssued, "updatedAt": time.Now()}},
	).Decode(&stub)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusConflict, KindConflict, "Pay stub is not in draft status")
		} else {
			respondError(c, http.StatusInternalServerError, KindDependency, "Failed to issue pay stub")
		}
		return
	}

	h.Notifier.NotifyUser(stub.EmployeeID, "payroll.issued", map[string]any{
		"stubID":   stubID,
		"netCents": stub.NetCents,
	})
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
