package tasks_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/reconova/reconova/internal/database/models"
	"github.com/reconova/reconova/internal/scan"
	"github.com/reconova/reconova/internal/tasks"
	"github.com/reconova/reconova/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRunner struct {
	output string
}

func (f *fixedRunner) Run(ctx context.Context, tool, target string) (string, error) {
	return f.output, nil
}

type fixedAnalyzer struct {
	text string
}

func (f *fixedAnalyzer) Analyze(ctx context.Context, rawOutput string) (string, error) {
	return f.text, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandler_HandleScanExecute(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	store := scan.NewStore(db)
	orch := scan.NewOrchestrator(store,
		&fixedRunner{output: "22/tcp open ssh"},
		&fixedAnalyzer{text: "ssh exposed"},
		discardLogger())
	handler := tasks.NewHandler(orch, discardLogger())

	plan := testutil.CreateTestPlan(t, db, 5, 30)
	user := testutil.CreateTestUser(t, db, plan)

	ctx := context.Background()

	t.Run("runs an accepted scan to completion", func(t *testing.T) {
		scanID, err := orch.StartScan(ctx, user.ID, "example.com", "nmap", uuid.Nil)
		require.NoError(t, err)

		task, err := tasks.NewScanExecuteTask(tasks.ScanExecutePayload{ScanID: scanID})
		require.NoError(t, err)
		assert.Equal(t, tasks.TypeScanExecute, task.Type())

		require.NoError(t, handler.HandleScanExecute(ctx, task))

		rec, err := store.ScanWithAnalysis(ctx, scanID)
		require.NoError(t, err)
		assert.Equal(t, models.ScanStatusCompleted, rec.Status)
		require.NotNil(t, rec.Analysis)
		assert.Equal(t, "ssh exposed", rec.Analysis.Output)
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		task := asynq.NewTask(tasks.TypeScanExecute, []byte("{not json"))
		err := handler.HandleScanExecute(ctx, task)
		assert.Error(t, err)
	})

	t.Run("unknown scan id fails the task", func(t *testing.T) {
		task, err := tasks.NewScanExecuteTask(tasks.ScanExecutePayload{ScanID: uuid.NewString()})
		require.NoError(t, err)

		err = handler.HandleScanExecute(ctx, task)
		assert.ErrorIs(t, err, scan.ErrScanNotFound)
	})
}
