// server/internal/workorder/qa.go
package workorder

import (
	"context"
	"time"

	"garage-ops-api-server/internal/models"
)

// Photo count bounds for an approval to be valid.
const (
	MinQAPhotos = 3
	MaxQAPhotos = 5
)

// ApproveQA validates the pending verification for a work order and, on
// success, transitions the work order to completed. The verification is
// immutable afterwards.
func (e *Engine) ApproveQA(ctx context.Context, workOrderID, reviewerID string, photos []models.MediaPointer, comments string) (*models.QAVerification, error) {
	if len(photos) < MinQAPhotos || len(photos) > MaxQAPhotos {
		return nil, ErrInvalidPhotoCount
	}
	wo, err := e.store.GetWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if wo.Status != models.WorkOrderPendingQA {
		return nil, ErrNotReadyForQA
	}
	qa, err := e.store.GetPendingQA(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	wo.Status = models.WorkOrderCompleted
	if err := e.store.UpdateWorkOrderCAS(ctx, wo); err != nil {
		return nil, err
	}

	now := time.Now()
	qa.ReviewerID = reviewerID
	qa.Decision = models.QAApproved
	qa.Photos = photos
	qa.Comments = comments
	qa.DecidedAt = &now
	if err := e.store.UpdateQADecision(ctx, qa); err != nil {
		return nil, err
	}
	return qa, nil
}

// RejectQA sends the work order back to in_progress and clears the ready
// flags so technicians must re-submit. Stage logs are retained.
func (e *Engine) RejectQA(ctx context.Context, workOrderID, reviewerID, reason string) (*models.QAVerification, error) {
	wo, err := e.store.GetWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if wo.Status != models.WorkOrderPendingQA {
		return nil, ErrNotReadyForQA
	}
	qa, err := e.store.GetPendingQA(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	wo.QASubmitted = false
	for pi := range wo.Parts {
		for si := range wo.Parts[pi].Stages {
			wo.Parts[pi].Stages[si].Ready = false
		}
	}
	wo.Status = DeriveStatus(wo)
	if err := e.store.UpdateWorkOrderCAS(ctx, wo); err != nil {
		return nil, err
	}

	now := time.Now()
	qa.ReviewerID = reviewerID
	qa.Decision = models.QARejected
	qa.Comments = reason
	qa.DecidedAt = &now
	if err := e.store.UpdateQADecision(ctx, qa); err != nil {
		return nil, err
	}
	return qa, nil
}
