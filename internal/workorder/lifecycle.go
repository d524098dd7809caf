// server/internal/workorder/lifecycle.go

// Package workorder owns the canonical state machine for a work order's
// progress: stage transitions, the append-only audit trail and the QA gate.
// Every mutation is load-validate-mutate-CAS; a lost race surfaces as
// ErrConflict instead of last-writer-wins.
package workorder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"garage-ops-api-server/internal/models"

	"github.com/google/uuid"
)

// Log action names.
const (
	actionAssign       = "assign"
	actionStart        = "start"
	actionComplete     = "complete"
	actionReportError  = "report_error"
	actionResolveError = "resolve_error"
	actionMarkReady    = "mark_ready"
	actionSubmitQA     = "submit_qa"
	actionCancel       = "cancel"
)

// Engine drives work order stage transitions against a Store.
type Engine struct {
	store Store
	rates RateResolver
}

func NewEngine(store Store, rates RateResolver) *Engine {
	return &Engine{store: store, rates: rates}
}

// NewID mints a prefixed sub-entity id, e.g. "stg-a1b2c3d4".
func NewID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, strings.ToLower(uuid.New().String()[:8]))
}

func findStage(wo *models.WorkOrder, stageID string) (*models.Part, *models.Stage) {
	for pi := range wo.Parts {
		part := &wo.Parts[pi]
		for si := range part.Stages {
			if part.Stages[si].StageID == stageID {
				return part, &part.Stages[si]
			}
		}
	}
	return nil, nil
}

func allStagesCompleted(wo *models.WorkOrder) bool {
	for _, part := range wo.Parts {
		for _, stage := range part.Stages {
			if stage.Status != models.StageCompleted {
				return false
			}
		}
	}
	return true
}

func allStagesReady(wo *models.WorkOrder) bool {
	for _, part := range wo.Parts {
		for _, stage := range part.Stages {
			if !stage.Ready {
				return false
			}
		}
	}
	return true
}

func anyStageTouched(wo *models.WorkOrder) bool {
	for _, part := range wo.Parts {
		for _, stage := range part.Stages {
			if stage.Status != models.StagePending {
				return true
			}
		}
	}
	return false
}

// DeriveStatus computes the overall status from the stages. Completed and
// cancelled are sticky: they are set by QA approval and Cancel respectively.
func DeriveStatus(wo *models.WorkOrder) string {
	switch wo.Status {
	case models.WorkOrderCancelled, models.WorkOrderCompleted:
		return wo.Status
	}
	if wo.QASubmitted && allStagesCompleted(wo) && allStagesReady(wo) {
		return models.WorkOrderPendingQA
	}
	if anyStageTouched(wo) {
		return models.WorkOrderInProgress
	}
	return models.WorkOrderPending
}

func (e *Engine) terminal(wo *models.WorkOrder) bool {
	return wo.Status == models.WorkOrderCompleted || wo.Status == models.WorkOrderCancelled
}

// commit writes the work order back with a version check and, on success,
// appends the audit-trail entry. The log insert happens after the CAS so a
// lost race leaves no trace. A log failure after a successful CAS cannot be
// rolled back; it surfaces as ErrLogAppend so callers know the transition
// itself stuck.
func (e *Engine) commit(ctx context.Context, wo *models.WorkOrder, part *models.Part, stage *models.Stage, action, actor, note string) error {
	wo.Status = DeriveStatus(wo)
	if err := e.store.UpdateWorkOrderCAS(ctx, wo); err != nil {
		return err
	}
	entry := &models.StageLog{
		WorkOrderID: wo.WorkOrderID,
		Action:      action,
		Actor:       actor,
		Note:        note,
		Timestamp:   time.Now(),
	}
	if part != nil {
		entry.PartID = part.PartID
	}
	if stage != nil {
		entry.StageID = stage.StageID
	}
	if err := e.store.AppendLog(ctx, entry); err != nil {
		return fmt.Errorf("%w: %w", ErrLogAppend, err)
	}
	return nil
}

// AssignTechnician sets (or overwrites) the stage assignee and snapshots
// the technician's hourly rate. Fails on a completed stage; re-assignment
// of an open stage is idempotent.
func (e *Engine) AssignTechnician(ctx context.Context, workOrderID, stageID, technicianID, actor string) error {
	wo, err := e.store.GetWorkOrder(ctx, workOrderID)
	if err != nil {
		return err
	}
	if e.terminal(wo) {
		return ErrTerminal
	}
	part, stage := findStage(wo, stageID)
	if stage == nil {
		return ErrStageNotFound
	}
	if stage.Status == models.StageCompleted {
		return ErrStageCompleted
	}
	rate, err := e.rates(ctx, technicianID)
	if err != nil {
		return ErrTechnicianUnknown
	}
	stage.TechnicianID = technicianID
	stage.RateCents = rate
	return e.commit(ctx, wo, part, stage, actionAssign, actor, "technician "+technicianID)
}

// StartStage moves a pending stage to in_progress. Stages within a part are
// ordered: a stage cannot start before every lower-ordered stage in the
// same part is completed.
func (e *Engine) StartStage(ctx context.Context, workOrderID, stageID, actor string) error {
	wo, err := e.store.GetWorkOrder(ctx, workOrderID)
	if err != nil {
		return err
	}
	if e.terminal(wo) {
		return ErrTerminal
	}
	part, stage := findStage(wo, stageID)
	if stage == nil {
		return ErrStageNotFound
	}
	if stage.Status != models.StagePending {
		return ErrStageState
	}
	for _, sibling := range part.Stages {
		if sibling.Order < stage.Order && sibling.Status != models.StageCompleted {
			return ErrStageOrder
		}
	}
	stage.Status = models.StageInProgress
	return e.commit(ctx, wo, part, stage, actionStart, actor, "")
}

// CompleteStage finishes an in_progress stage, recording the accumulated
// actual hours. Hours must be > 0.
func (e *Engine) CompleteStage(ctx context.Context, workOrderID, stageID string, hours float64, actor string) error {
	wo, err := e.store.GetWorkOrder(ctx, workOrderID)
	if err != nil {
		return err
	}
	if e.terminal(wo) {
		return ErrTerminal
	}
	part, stage := findStage(wo, stageID)
	if stage == nil {
		return ErrStageNotFound
	}
	if stage.Status == models.StageCompleted {
		return ErrStageCompleted
	}
	if stage.Status != models.StageInProgress {
		return ErrStageState
	}
	if hours <= 0 {
		return ErrHoursRequired
	}
	stage.Status = models.StageCompleted
	stage.HoursActual += hours
	stage.Ready = true
	return e.commit(ctx, wo, part, stage, actionComplete, actor, fmt.Sprintf("%.2f hours", hours))
}

// ReportError blocks an in_progress stage with a description. A blocked
// stage keeps the work order out of pending_qa until resolved.
func (e *Engine) ReportError(ctx context.Context, workOrderID, stageID, description, actor string) error {
	wo, err := e.store.GetWorkOrder(ctx, workOrderID)
	if err != nil {
		return err
	}
	if e.terminal(wo) {
		return ErrTerminal
	}
	part, stage := findStage(wo, stageID)
	if stage == nil {
		return ErrStageNotFound
	}
	if stage.Status != models.StageInProgress {
		return ErrStageState
	}
	stage.Status = models.StageBlocked
	stage.BlockedReason = description
	return e.commit(ctx, wo, part, stage, actionReportError, actor, description)
}

// ResolveError returns a blocked stage to in_progress.
func (e *Engine) ResolveError(ctx context.Context, workOrderID, stageID, actor string) error {
	wo, err := e.store.GetWorkOrder(ctx, workOrderID)
	if err != nil {
		return err
	}
	if e.terminal(wo) {
		return ErrTerminal
	}
	part, stage := findStage(wo, stageID)
	if stage == nil {
		return ErrStageNotFound
	}
	if stage.Status != models.StageBlocked {
		return ErrStageState
	}
	stage.Status = models.StageInProgress
	stage.BlockedReason = ""
	return e.commit(ctx, wo, part, stage, actionResolveError, actor, "")
}

// MarkStageReady restores the ready flag on a completed stage after a QA
// rejection cleared it.
func (e *Engine) MarkStageReady(ctx context.Context, workOrderID, stageID, actor string) error {
	wo, err := e.store.GetWorkOrder(ctx, workOrderID)
	if err != nil {
		return err
	}
	if e.terminal(wo) {
		return ErrTerminal
	}
	part, stage := findStage(wo, stageID)
	if stage == nil {
		return ErrStageNotFound
	}
	if stage.Status != models.StageCompleted {
		return ErrStageState
	}
	stage.Ready = true
	return e.commit(ctx, wo, part, stage, actionMarkReady, actor, "")
}

// SubmitForQA is only legal when every stage is completed and ready. It
// creates a pending QAVerification for the reviewer.
func (e *Engine) SubmitForQA(ctx context.Context, workOrderID, actor string) (*models.QAVerification, error) {
	wo, err := e.store.GetWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if e.terminal(wo) {
		return nil, ErrTerminal
	}
	if !allStagesCompleted(wo) || !allStagesReady(wo) {
		return nil, ErrNotReadyForQA
	}
	if wo.QASubmitted {
		return nil, ErrNotReadyForQA
	}
	wo.QASubmitted = true
	if err := e.commit(ctx, wo, nil, nil, actionSubmitQA, actor, ""); err != nil {
		return nil, err
	}
	qa := &models.QAVerification{
		QAID:        NewID("qa"),
		WorkOrderID: wo.WorkOrderID,
		Decision:    models.QAPending,
		CreatedAt:   time.Now(),
	}
	if err := e.store.InsertQA(ctx, qa); err != nil {
		return nil, err
	}
	return qa, nil
}

// Cancel moves a non-terminal work order to cancelled. The approval record
// is mandatory: an empty approver or reason fails.
func (e *Engine) Cancel(ctx context.Context, workOrderID, approvedBy, reason string) error {
	if approvedBy == "" || strings.TrimSpace(reason) == "" {
		return ErrApprovalRequired
	}
	wo, err := e.store.GetWorkOrder(ctx, workOrderID)
	if err != nil {
		return err
	}
	if e.terminal(wo) {
		return ErrTerminal
	}
	wo.Status = models.WorkOrderCancelled
	wo.Cancel = &models.CancelApproval{
		ApprovedBy: approvedBy,
		Reason:     reason,
		ApprovedAt: time.Now(),
	}
	if err := e.store.UpdateWorkOrderCAS(ctx, wo); err != nil {
		return err
	}
	err = e.store.AppendLog(ctx, &models.StageLog{
		WorkOrderID: wo.WorkOrderID,
		Action:      actionCancel,
		Actor:       approvedBy,
		Note:        reason,
		Timestamp:   time.Now(),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLogAppend, err)
	}
	return nil
}
