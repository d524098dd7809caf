// server/internal/api/handlers/invoice_handler.go
package handlers

import (
	"context"
	"net/http"

	"garage-ops-api-server/internal/api/middleware"
	"garage-ops-api-server/internal/invoice"
	"garage-ops-api-server/internal/models"
	"garage-ops-api-server/internal/pdf"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type InvoiceHandler struct {
	DB       *mongo.Database
	Engine   *invoice.Engine
	Store    *invoice.MongoStore
	Notifier *Notifier
}

type GenerateInvoiceRequest struct {
	WorkOrderID string `json:"workOrderID" binding:"required"`
}

func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	var req GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	actor := c.GetString(middleware.CtxUserID)
	inv, err := h.Engine.Generate(context.Background(), req.WorkOrderID, actor)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	h.Notifier.NotifyBranch(inv.BranchID, "invoice.created", map[string]any{
		"invoiceID":   inv.InvoiceID,
		"workOrderID": inv.WorkOrderID,
		"totalCents":  inv.TotalCents,
	})
	c.JSON(http.StatusCreated, inv)
}

func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	filter := bson.M{"void": false}
	if status := c.Query("paymentStatus"); status != "" {
		filter["paymentStatus"] = status
	}
	if customer := c.Query("customer"); customer != "" {
		filter["customerID"] = customer
	}
	if branch := c.Query("branch"); branch != "" {
		filter["branchID"] = branch
	}

	cursor, err := h.DB.Collection("invoices").Find(context.Background(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to query invoices")
		return
	}
	defer cursor.Close(context.Background())

	var invoices []models.Invoice
	if err := cursor.All(context.Background(), &invoices); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to decode invoices")
		return
	}
	if invoices == nil {
		invoices = []models.Invoice{}
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	inv, err := h.Store.GetInvoice(context.Background(), c.Param("id"))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

type RecordPaymentRequest struct {
	AmountCents int64  `json:"amountCents" binding:"required"`
	Method      string `json:"method" binding:"required,oneof=cash card transfer"`
}

func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	actor := c.GetString(middleware.CtxUserID)
	inv, err := h.Engine.RecordPayment(context.Background(), c.Param("id"), req.AmountCents, req.Method, actor)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	h.Notifier.NotifyBranch(inv.BranchID, "invoice.payment", map[string]any{
		"invoiceID":     inv.InvoiceID,
		"amountCents":   req.AmountCents,
		"paymentStatus": inv.PaymentStatus,
	})
	c.JSON(http.StatusOK, inv)
}

// DownloadInvoicePDF streams the rendered PDF.
func (h *InvoiceHandler) DownloadInvoicePDF(c *gin.Context) {
	inv, err := h.Store.GetInvoice(context.Background(), c.Param("id"))
	if err != nil {
		respondEngineError(c, err)
		return
	}

	doc, err := pdf.RenderInvoice(inv)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to render invoice PDF")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+inv.InvoiceID+".pdf")
	c.Data(http.StatusOK, "application/pdf", doc)
}
