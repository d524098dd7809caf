// server/internal/api/handlers/expense_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"garage-ops-api-server/internal/api/middleware"
	"garage-ops-api-server/internal/models"
	"garage-ops-api-server/internal/workorder"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ExpenseHandler struct {
	DB *mongo.Database
}

type CreateExpenseRequest struct {
	Category    string               `json:"category" binding:"required,oneof=parts utilities rent misc"`
	Description string               `json:"description"`
	AmountCents int64                `json:"amountCents" binding:"required,min=1"`
	Receipt     *models.MediaPointer `json:"receipt"`
	BranchID    string               `json:"branchID" binding:"required"`
	IncurredAt  time.Time            `json:"incurredAt" binding:"required"`
}

func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	expense := models.Expense{
		ExpenseID:   workorder.NewID("exp"),
		Category:    req.Category,
		Description: req.Description,
		AmountCents: req.AmountCents,
		Receipt:     req.Receipt,
		BranchID:    req.BranchID,
		RecordedBy:  c.GetString(middleware.CtxUserID),
		IncurredAt:  req.IncurredAt,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if _, err := h.DB.Collection("expenses").InsertOne(context.Background(), expense); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to record expense")
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	filter := bson.M{}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}
	if branch := c.Query("branch"); branch != "" {
		filter["branchID"] = branch
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter["incurredAt"] = bson.M{"$gte": t}
		}
	}

	cursor, err := h.DB.Collection("expenses").Find(context.Background(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to query expenses")
		return
	}
	defer cursor.Close(context.Background())

	var expenses []models.Expense
	if err := cursor.All(context.Background(), &expenses); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to decode expenses")
		return
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	c.JSON(http.StatusOK, expenses)
}

func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	var expense models.Expense
	err := h.DB.Collection("expenses").FindOne(context.Background(), bson.M{"expenseID": c.Param("id")}).Decode(&expense)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, KindNotFound, "Expense not found")
		} else {
			respondError(c, http.StatusInternalServerError, KindDependency, "Failed to retrieve expense")
		}
		return
	}
	c.JSON(http.StatusOK, expense)
}

type UpdateExpenseRequest struct {
	Category    string               `json:"category" binding:"omitempty,oneof=parts utilities rent misc"`
	Description string               `json:"description"`
	AmountCents *int64               `json:"amountCents" binding:"omitempty,min=1"`
	Receipt     *models.MediaPointer `json:"receipt"`
}

func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Category != "" {
		set["category"] = req.Category
	}
	if req.Description != "" {
		set["description"] = req.Description
	}
	if req.AmountCents != nil {
		set["amountCents"] = *req.AmountCents
	}
	if req.Receipt != nil {
		set["receipt"] = req.Receipt
	}

	res, err := h.DB.Collection("expenses").UpdateOne(context.Background(), bson.M{"expenseID": c.Param("id")}, bson.M{"$set": set})
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to update expense")
		return
	}
	if res.MatchedCount == 0 {
		respondError(c, http.StatusNotFound, KindNotFound, "Expense not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
