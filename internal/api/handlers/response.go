// server/internal/api/handlers/response.go
package handlers

import (
	"errors"
	"net/http"

	"garage-ops-api-server/internal/invoice"
	"garage-ops-api-server/internal/registration"
	"garage-ops-api-server/internal/workorder"

	"github.com/gin-gonic/gin"
)

// Error kinds of the response envelope.
const (
	KindValidation = "VALIDATION_ERROR"
	KindAuth       = "AUTH_ERROR"
	KindPermission = "PERMISSION_ERROR"
	KindConflict   = "CONFLICT_ERROR"
	KindNotFound   = "NOT_FOUND"
	KindDependency = "DEPENDENCY_ERROR"
)

func respondError(c *gin.Context, status int, kind, message string) {
	c.JSON(status, gin.H{"error": gin.H{"kind": kind, "message": message}})
}

// respondEngineError maps engine sentinel errors to the envelope. Unknown
// errors are treated as dependency failures (storage etc.) and never
// silently swallowed.
func respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workorder.ErrNotFound),
		errors.Is(err, workorder.ErrStageNotFound),
		errors.Is(err, invoice.ErrNotFound),
		errors.Is(err, registration.ErrCustomerNotFound),
		errors.Is(err, registration.ErrVehicleNotFound),
		errors.Is(err, registration.ErrVariationNotFound),
		errors.Is(err, registration.ErrQuotationNotFound),
		errors.Is(err, workorder.ErrQANotPending):
		respondError(c, http.StatusNotFound, KindNotFound, err.Error())
	case errors.Is(err, workorder.ErrConflict), errors.Is(err, invoice.ErrConflict):
		respondError(c, http.StatusConflict, KindConflict, err.Error())
	case errors.Is(err, workorder.ErrStageCompleted),
		errors.Is(err, workorder.ErrStageOrder),
		errors.Is(err, workorder.ErrStageState),
		errors.Is(err, workorder.ErrTerminal),
		errors.Is(err, workorder.ErrNotReadyForQA),
		errors.Is(err, invoice.ErrAlreadyInvoiced),
		errors.Is(err, invoice.ErrNotCompleted),
		errors.Is(err, invoice.ErrOverpayment),
		errors.Is(err, registration.ErrQuotationDecided):
		respondError(c, http.StatusConflict, KindConflict, err.Error())
	case errors.Is(err, workorder.ErrHoursRequired),
		errors.Is(err, workorder.ErrInvalidPhotoCount),
		errors.Is(err, workorder.ErrApprovalRequired),
		errors.Is(err, workorder.ErrTechnicianUnknown),
		errors.Is(err, invoice.ErrInvalidAmount),
		errors.Is(err, registration.ErrNoItems):
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, KindDependency, "Storage operation failed")
	}
}
