// server/internal/api/handlers/case_handler.go
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

type CaseHandler struct {
	DB *mongo.Database
}

type CreateCaseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority" binding:"required,oneof=low medium high"`
	WorkOrderID string `json:"workOrderID"`
	InvoiceID   string `json:"invoiceID"`
	CustomerID  string `json:"customerID"`
	BranchID    string `json:"branchID" binding:"required"`
}

func (h *CaseHandler) CreateCase(c *gin.Context) {
	var req CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	actor := c.GetString(middleware.CtxUserID)
	record := models.Case{
		CaseID:      workorder.NewID("case"),
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      models.CaseOpen,
		WorkOrderID: req.WorkOrderID,
		InvoiceID:   req.InvoiceID,
		CustomerID:  req.CustomerID,
		BranchID:    req.BranchID,
		Activity:    []models.CaseActivity{},
		CreatedBy:   actor,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if _, err := h.DB.Collection("cases").InsertOne(context.Background(), record); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to create case")
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *CaseHandler) ListCases(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if priority := c.Query("priority"); priority != "" {
		filter["priority"] = priority
	}
	if branch := c.Query("branch"); branch != "" {
		filter["branchID"] = branch
	}
	if wo := c.Query("workOrder"); wo != "" {
		filter["workOrderID"] = wo
	}

	cursor, err := h.DB.Collection("cases").Find(context.Background(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to query cases")
		return
	}
	defer cursor.Close(context.Background())

	var cases []models.Case
	if err := cursor.All(context.Background(), &cases); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to decode cases")
		return
	}
	if cases == nil {
		cases = []models.Case{}
	}
	c.JSON(http.StatusOK, cases)
}

func (h *CaseHandler) GetCase(c *gin.Context) {
	var record models.Case
	err := h.DB.Collection("cases").FindOne(context.Background(), bson.M{"caseID": c.Param("id")}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, KindNotFound, "Case not found")
		} else {
			respondError(c, http.StatusInternalServerError, KindDependency, "Failed to retrieve case")
		}
		return
	}
	c.JSON(http.StatusOK, record)
}

type UpdateCaseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status      string `json:"status" binding:"omitempty,oneof=open resolved closed"`
}

func (h *CaseHandler) UpdateCase(c *gin.Context) {
	var req UpdateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Title != "" {
		set["title"] = req.Title
	}
	if req.Description != "" {
		set["description"] = req.Description
	}
	if req.Priority != "" {
		set["priority"] = req.Priority
	}
	if req.Status != "" {
		set["status"] = req.Status
	}

	res, err := h.DB.Collection("cases").UpdateOne(context.Background(), bson.M{"caseID": c.Param("id")}, bson.M{"$set": set})
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to update case")
		return
	}
	if res.MatchedCount == 0 {
		respondError(c, http.StatusNotFound, KindNotFound, "Case not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type CaseCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// AddComment appends to the activity log. The log is $push only; entries
// are never edited or removed.
func (h *CaseHandler) AddComment(c *gin.Context) {
	var req CaseCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	activity := models.CaseActivity{
		Actor:     c.GetString(middleware.CtxUserID),
		Comment:   req.Comment,
		Timestamp: time.Now(),
	}
	res, err := h.DB.Collection("cases").UpdateOne(
		context.Background(),
		bson.M{"caseID": c.Param("id")},
		bson.M{"$push": bson.M{"activity": activity}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to add comment")
		return
	}
	if res.MatchedCount == 0 {
		respondError(c, http.StatusNotFound, KindNotFound, "Case not found")
		return
	}
	c.JSON(http.StatusCreated, activity)
}
