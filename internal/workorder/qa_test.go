// server/internal/workorder/qa_test.go
package workorder

import (
	"context"
	"fmt"
	"testing"

	"garage-ops-api-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func photos(n int) []models.MediaPointer {
	out := make([]models.MediaPointer, n)
	for i := range out {
		out[i] = models.MediaPointer{
			ID:       fmt.Sprintf("med-%d", i),
			URL:      fmt.Sprintf("https://cdn.example.com/med-%d.jpg", i),
			FileName: fmt.Sprintf("photo-%d.jpg", i),
			FileType: "image/jpeg",
		}
	}
	return out
}

// submitTestOrder drives a seeded work order to pending_qa.
func submitTestOrder(t *testing.T, engine *Engine) {
	t.Helper()
	completeAll(t, engine, "WO-000001")
	_, err := engine.SubmitForQA(context.Background(), "WO-000001", "technician-1")
	require.NoError(t, err)
}

func TestApproveQAPhotoBounds(t *testing.T) {
	engine, store := newTestEngine()
	seedWorkOrder(store)
	submitTestOrder(t, engine)
	ctx := context.Background()

	_, err := engine.ApproveQA(ctx, "WO-000001", "supervisor-1", photos(2), "")
	assert.ErrorIs(t, err, ErrInvalidPhotoCount)

	_, err = engine.ApproveQA(ctx, "WO-000001", "supervisor-1", photos(6), "")
	assert.ErrorIs(t, err, ErrInvalidPhotoCount)

	// Bounds are inclusive at both ends.
	qa, err := engine.ApproveQA(ctx, "WO-000001", "supervisor-1", photos(3), "looks good")
	require.NoError(t, err)
	assert.Equal(t, models.QAApproved, qa.Decision)
}

func TestApproveQACompletesWorkOrder(t *testing.T) {
	engine, store := newTestEngine()
	seedWorkOrder(store)
	submitTestOrder(t, engine)
	ctx := context.Background()

	qa, err := engine.ApproveQA(ctx, "WO-000001", "supervisor-1", photos(5), "")
	require.NoError(t, err)
	assert.Equal(t, "supervisor-1", qa.ReviewerID)
	require.NotNil(t, qa.DecidedAt)
	assert.Equal(t, models.WorkOrderCompleted, store.orders["WO-000001"].Status)

	// Completed is terminal for both the work order and the verification.
	_, err = engine.ApproveQA(ctx, "WO-000001", "supervisor-1", photos(4), "")
	assert.ErrorIs(t, err, ErrNotReadyForQA)
	_, err = engine.RejectQA(ctx, "WO-000001", "supervisor-1", "changed my mind")
	assert.ErrorIs(t, err, ErrNotReadyForQA)
}

func TestApproveQARequiresPendingQAStatus(t *testing.T) {
	engine, store := newTestEngine()
	seedWorkOrder(store)

	_, err := engine.ApproveQA(context.Background(), "WO-000001", "supervisor-1", photos(3), "")
	assert.ErrorIs(t, err, ErrNotReadyForQA)
}

func TestRejectQAClearsReadyFlags(t *testing.T) {
	engine, store := newTestEngine()
	seedWorkOrder(store)
	submitTestOrder(t, engine)
	ctx := context.Background()

	qa, err := engine.RejectQA(ctx, "WO-000001", "supervisor-1", "pads misaligned")
	require.NoError(t, err)
	assert.Equal(t, models.QARejected, qa.Decision)
	assert.Equal(t, "pads misaligned", qa.Comments)

	wo := store.orders["WO-000001"]
	assert.Equal(t, models.WorkOrderInProgress, wo.Status)
	assert.False(t, wo.QASubmitted)
	for _, part := range wo.Parts {
		for _, stage := range part.Stages {
			assert.False(t, stage.Ready, "stage %s should need re-verification", stage.StageID)
			assert.Equal(t, models.StageCompleted, stage.Status)
		}
	}

	// Re-submission requires every stage marked ready again.
	_, err = engine.SubmitForQA(ctx, "WO-000001", "technician-1")
	assert.ErrorIs(t, err, ErrNotReadyForQA)

	for _, stageID := range []string{"stg-1", "stg-2", "stg-3"} {
		require.NoError(t, engine.MarkStageReady(ctx, "WO-000001", stageID, "technician-1"))
	}
	resubmitted, err := engine.SubmitForQA(ctx, "WO-000001", "technician-1")
	require.NoError(t, err)
	assert.NotEqual(t, qa.QAID, resubmitted.QAID)

	// Second attempt can now be approved.
	_, err = engine.ApproveQA(ctx, "WO-000001", "supervisor-1", photos(4), "")
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderCompleted, store.orders["WO-000001"].Status)
}

func TestRejectQARetainsStageLogs(t *testing.T) {
	engine, store := newTestEngine()
	seedWorkOrder(store)
	submitTestOrder(t, engine)

	logsBefore := len(store.logs)
	require.Greater(t, logsBefore, 0)
	_, err := engine.RejectQA(context.Background(), "WO-000001", "supervisor-1", "rework")
	require.NoError(t, err)
	assert.Len(t, store.logs, logsBefore)
}
