// server/internal/api/handlers/workorder_handler.go
package handlers

import (
	"context"
	"net/http"

	"garage-ops-api-server/internal/api/middleware"
	"garage-ops-api-server/internal/models"
	"garage-ops-api-server/internal/workorder"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// WorkOrderHandler exposes the stage state machine and the QA gate over
// HTTP. All transition rules live in the engine; the handler only binds
// requests and maps errors.
type WorkOrderHandler struct {
	DB       *mongo.Database
	Engine   *workorder.Engine
	Store    *workorder.MongoStore
	Notifier *Notifier
}

func (h *WorkOrderHandler) ListWorkOrders(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if branch := c.Query("branch"); branch != "" {
		filter["branchID"] = branch
	}
	if customer := c.Query("customer"); customer != "" {
		filter["customerID"] = customer
	}
	if technician := c.Query("technician"); technician != "" {
		filter["parts.stages.technicianID"] = technician
	}

	cursor, err := h.DB.Collection("workorders").Find(context.Background(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to query work orders")
		return
	}
	defer cursor.Close(context.Background())

	var orders []models.WorkOrder
	if err := cursor.All(context.Background(), &orders); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to decode work orders")
		return
	}
	if orders == nil {
		orders = []models.WorkOrder{}
	}
	c.JSON(http.StatusOK, orders)
}

func (h *WorkOrderHandler) GetWorkOrder(c *gin.Context) {
	wo, err := h.Store.GetWorkOrder(context.Background(), c.Param("id"))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, wo)
}

// GetStageLogs returns the append-only audit trail.
func (h *WorkOrderHandler) GetStageLogs(c *gin.Context) {
	logs, err := h.Store.ListLogs(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to query stage logs")
		return
	}
	c.JSON(http.StatusOK, logs)
}

type AssignTechnicianRequest struct {
	StageID      string `json:"stageID" binding:"required"`
	TechnicianID string `json:"technicianID" binding:"required"`
}

func (h *WorkOrderHandler) AssignTechnician(c *gin.Context) {
	var req AssignTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	workOrderID := c.Param("id")
	actor := c.GetString(middleware.CtxUserID)
	if err := h.Engine.AssignTechnician(context.Background(), workOrderID, req.StageID, req.TechnicianID, actor); err != nil {
		respondEngineError(c, err)
		return
	}

	h.Notifier.NotifyUser(req.TechnicianID, "workorder.assigned", map[string]any{
		"workOrderID": workOrderID,
		"stageID":     req.StageID,
	})
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type StageActionRequest struct {
	StageID string `json:"stageID" binding:"required"`
}

func (h *WorkOrderHandler) StartStage(c *gin.Context) {
	var req StageActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	actor := c.GetString(middleware.CtxUserID)
	if err := h.Engine.StartStage(context.Background(), c.Param("id"), req.StageID, actor); err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type CompleteStageRequest struct {
	StageID string  `json:"stageID" binding:"required"`
	Hours   float64 `json:"hours" binding:"required"`
}

func (h *WorkOrderHandler) CompleteStage(c *gin.Context) {
	var req CompleteStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	actor := c.GetString(middleware.CtxUserID)
	if err := h.Engine.CompleteStage(context.Background(), c.Param("id"), req.StageID, req.Hours, actor); err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type ReportErrorRequest struct {
	StageID     string `json:"stageID" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// ReportError blocks a stage and alerts the branch supervisors.
func (h *WorkOrderHandler) ReportError(c *gin.Context) {
	var req ReportErrorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	workOrderID := c.Param("id")
	actor := c.GetString(middleware.CtxUserID)
	if err := h.Engine.ReportError(context.Background(), workOrderID, req.StageID, req.Description, actor); err != nil {
		respondEngineError(c, err)
		return
	}

	h.Notifier.NotifyBranch(c.GetString(middleware.CtxBranchID), "workorder.blocked", map[string]any{
		"workOrderID": workOrderID,
		"stageID":     req.StageID,
		"description": req.Description,
	})
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *WorkOrderHandler) ResolveError(c *gin.Context) {
	var req StageActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	actor := c.GetString(middleware.CtxUserID)
	if err := h.Engine.ResolveError(context.Background(), c.Param("id"), req.StageID, actor); err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *WorkOrderHandler) MarkStageReady(c *gin.Context) {
	var req StageActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	actor := c.GetString(middleware.CtxUserID)
	if err := h.Engine.MarkStageReady(context.Background(), c.Param("id"), req.StageID, actor); err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// SubmitForQA hands the work order to the review queue.
func (h *WorkOrderHandler) SubmitForQA(c *gin.Context) {
	workOrderID := c.Param("id")
	actor := c.GetString(middleware.CtxUserID)

	qa, err := h.Engine.SubmitForQA(context.Background(), workOrderID, actor)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	h.Notifier.NotifyBranch(c.GetString(middleware.CtxBranchID), "qa.submitted", map[string]any{
		"workOrderID": workOrderID,
		"qaID":        qa.QAID,
	})
	c.JSON(http.StatusCreated, qa)
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelWorkOrder records the approver from the request identity; the route
// is gated on the approval permission.
func (h *WorkOrderHandler) CancelWorkOrder(c *gin.Context) {
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	workOrderID := c.Param("id")
	approver := c.GetString(middleware.CtxUserID)
	if err := h.Engine.Cancel(context.Background(), workOrderID, approver, req.Reason); err != nil {
		respondEngineError(c, err)
		return
	}

	h.Notifier.NotifyBranch(c.GetString(middleware.CtxBranchID), "workorder.cancelled", map[string]any{
		"workOrderID": workOrderID,
		"reason":      req.Reason,
	})
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type ApproveQARequest struct {
	Photos   []models.MediaPointer `json:"photos" binding:"required"`
	Comments string                `json:"comments"`
}

func (h *WorkOrderHandler) ApproveQA(c *gin.Context) {
	var req ApproveQARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	workOrderID := c.Param("id")
	reviewer := c.GetString(middleware.CtxUserID)
	qa, err := h.Engine.ApproveQA(context.Background(), workOrderID, reviewer, req.Photos, req.Comments)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	h.Notifier.NotifyBranch(c.GetString(middleware.CtxBranchID), "qa.approved", map[string]any{
		"workOrderID": workOrderID,
		"qaID":        qa.QAID,
	})
	c.JSON(http.StatusOK, qa)
}

type RejectQARequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *WorkOrderHandler) RejectQA(c *gin.Context) {
	var req RejectQARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	workOrderID := c.Param("id")
	reviewer := c.GetString(middleware.CtxUserID)
	qa, err := h.Engine.RejectQA(context.Background(), workOrderID, reviewer, req.Reason)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	h.Notifier.NotifyBranch(c.GetString(middleware.CtxBranchID), "qa.rejected", map[string]any{
		"workOrderID": workOrderID,
		"reason":      req.Reason,
	})
	c.JSON(http.StatusOK, qa)
}

// ListPendingQA returns work orders waiting on a reviewer.
func (h *WorkOrderHandler) ListPendingQA(c *gin.Context) {
	cursor, err := h.DB.Collection("qaverifications").Find(context.Background(), bson.M{"decision": models.QAPending})
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to query QA queue")
		return
	}
	defer cursor.Close(context.Background())

	var queue []models.QAVerification
	if err := cursor.All(context.Background(), &queue); err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to decode QA queue")
		return
	}
	if queue == nil {
		queue = []models.QAVerification{}
	}
	c.JSON(http.StatusOK, queue)
}
