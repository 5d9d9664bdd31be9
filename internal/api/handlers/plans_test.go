package handlers_test

import (
	"net/http"
	"testing"

	"github.com/reconova/reconova/internal/api/dto"
	"github.com/reconova/reconova/internal/database/models"
	"github.com/reconova/reconova/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanEndpoints(t *testing.T) {
	env := setupAPI(t, false)

	member := testutil.CreateTestUser(t, env.db, nil)
	memberToken := testutil.GenerateTestToken(t, env.jwt, member)

	admin := testutil.CreateTestUser(t, env.db, nil)
	require.NoError(t, env.db.Model(admin).Update("role", "admin").Error)
	admin.Role = "admin"
	adminToken := testutil.GenerateTestToken(t, env.jwt, admin)

	t.Run("catalog is public", func(t *testing.T) {
		testutil.CreateTestPlan(t, env.db, 5, 30)

		rr := env.do(t, testutil.UnauthenticatedRequest(t, "GET", "/api/v1/plans", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var plans []models.Plan
		testutil.ParseJSONResponse(t, rr, &plans)
		assert.NotEmpty(t, plans)
	})

	t.Run("member cannot create plans", func(t *testing.T) {
		rr := env.do(t, testutil.AuthenticatedRequest(t, "POST", "/api/v1/plans", dto.CreatePlanRequest{
			Name:           "Sneaky",
			DurationDays:   30,
			MaxScansPerDay: 5,
		}, memberToken))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("admin creates a plan", func(t *testing.T) {
		rr := env.do(t, testutil.AuthenticatedRequest(t, "POST", "/api/v1/plans", dto.CreatePlanRequest{
			Name:           "Team",
			DurationDays:   30,
			MaxScansPerDay: 20,
		}, adminToken))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	})

	t.Run("rejects invalid duration", func(t *testing.T) {
		rr := env.do(t, testutil.AuthenticatedRequest(t, "POST", "/api/v1/plans", dto.CreatePlanRequest{
			Name:           "Broken",
			DurationDays:   -7,
			MaxScansPerDay: 5,
		}, adminToken))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("assign unlocks scanning", func(t *testing.T) {
		plan := testutil.CreateTestPlan(t, env.db, 3, 30)

		rr := env.do(t, testutil.AuthenticatedRequest(t, "POST", "/api/v1/plans/assign", dto.AssignPlanRequest{
			UserID: member.ID.String(),
			PlanID: plan.ID.String(),
		}, adminToken))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var got models.User
		require.NoError(t, env.db.First(&got, member.ID).Error)
		assert.True(t, got.IsPlanActive)
		require.NotNil(t, got.PlanID)
		assert.Equal(t, plan.ID, *got.PlanID)
		assert.Greater(t, got.PlanEndsAt, got.PlanStartedAt)

		body := dto.StartScanRequest{Target: "example.com", Tool: "nmap"}
		scanResp := env.do(t, testutil.AuthenticatedRequest(t, "POST", "/api/v1/scans/", body, memberToken))
		assert.Equal(t, http.StatusAccepted, scanResp.Code)
	})

	t.Run("assigning a lifetime plan leaves no end date", func(t *testing.T) {
		plan := testutil.CreateTestPlan(t, env.db, 3, models.PlanDurationUnlimited)
		user := testutil.CreateTestUser(t, env.db, nil)

		rr := env.do(t, testutil.AuthenticatedRequest(t, "POST", "/api/v1/plans/assign", dto.AssignPlanRequest{
			UserID: user.ID.String(),
			PlanID: plan.ID.String(),
		}, adminToken))
		require.Equal(t, http.StatusOK, rr.Code)

		var got models.User
		require.NoError(t, env.db.First(&got, user.ID).Error)
		assert.True(t, got.IsPlanActive)
		assert.Zero(t, got.PlanEndsAt)
	})
}
