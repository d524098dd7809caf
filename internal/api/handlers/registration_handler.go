// server/internal/api/handlers/registration_handler.go
package handlers

import (
	"context"
	"net/http"

	"garage-ops-api-server/internal/api/middleware"
	"garage-ops-api-server/internal/registration"

	"github.com/gin-gonic/gin"
)

// RegistrationHandler fronts the intake wizard: customer registration,
// quotations and work order instantiation on approval.
type RegistrationHandler struct {
	Workflow *registration.Workflow
	Notifier *Notifier
}

type RegisterCustomerRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email"`
	BranchID string `json:"branchID" binding:"required"`
	Vehicle  struct {
		Make  string `json:"make" binding:"required"`
		Model string `json:"model" binding:"required"`
		Year  int    `json:"year" binding:"required,min=1950"`
		VIN   string `json:"vin" binding:"required,len=17"`
		Plate string `json:"plate" binding:"required"`
	} `json:"vehicle" binding:"required"`
}

func (h *RegistrationHandler) RegisterCustomer(c *gin.Context) {
	var req RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	customer, err := h.Workflow.RegisterCustomer(context.Background(), req.Name, req.Phone, req.Email, req.BranchID, registration.VehicleInput{
		Make:  req.Vehicle.Make,
		Model: req.Vehicle.Model,
		Year:  req.Vehicle.Year,
		VIN:   req.Vehicle.VIN,
		Plate: req.Vehicle.Plate,
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

type CreateQuotationRequest struct {
	CustomerID    string   `json:"customerID" binding:"required"`
	VehicleKey    string   `json:"vehicleKey" binding:"required"`
	VariationKeys []string `json:"variationKeys" binding:"required,min=1"`
}

func (h *RegistrationHandler) CreateQuotation(c *gin.Context) {
	var req CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	actor := c.GetString(middleware.CtxUserID)
	quotation, err := h.Workflow.CreateQuotation(context.Background(), req.CustomerID, req.VehicleKey, req.VariationKeys, actor)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quotation)
}

// ApproveQuotation instantiates the work order and notifies the branch.
func (h *RegistrationHandler) ApproveQuotation(c *gin.Context) {
	quotationID := c.Param("id")
	actor := c.GetString(middleware.CtxUserID)

	wo, err := h.Workflow.ApproveQuotation(context.Background(), quotationID, actor)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	h.Notifier.NotifyBranch(wo.BranchID, "workorder.created", map[string]any{
		"workOrderID": wo.WorkOrderID,
		"customerID":  wo.CustomerID,
	})
	c.JSON(http.StatusCreated, wo)
}

func (h *RegistrationHandler) DeclineQuotation(c *gin.Context) {
	quotationID := c.Param("id")

	if err := h.Workflow.DeclineQuotation(context.Background(), quotationID); err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
