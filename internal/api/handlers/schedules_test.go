package handlers_test

import (
	"net/http"
	"testing"

	"github.com/reconova/reconova/internal/api/dto"
	"github.com/reconova/reconova/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleEndpoints(t *testing.T) {
	env := setupAPI(t, false)

	plan := testutil.CreateTestPlan(t, env.db, 5, 30)
	user := testutil.CreateTestUser(t, env.db, plan)
	token := testutil.GenerateTestToken(t, env.jwt, user)

	testutil.CreateTestTool(t, env.db, "nmap")
	testutil.CreateTestTool(t, env.db, "httpx")

	create := dto.CreateScheduleRequest{
		Name:      "Nightly sweep",
		Target:    "example.com",
		TimeOfDay: "02:30",
		Tools:     []string{"nmap", "httpx"},
	}

	var created dto.ScheduleResponse

	t.Run("create", func(t *testing.T) {
		rr := env.do(t, testutil.AuthenticatedRequest(t, "POST", "/api/v1/schedules/", create, token))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		testutil.ParseJSONResponse(t, rr, &created)
		assert.Equal(t, "02:30", created.TimeOfDay)
		assert.True(t, created.IsEnabled)
		assert.Equal(t, []string{"nmap", "httpx"}, created.Tools)
	})

	t.Run("create rejects bad time of day", func(t *testing.T) {
		bad := create
		bad.TimeOfDay = "25:99"
		rr := env.do(t, testutil.AuthenticatedRequest(t, "POST", "/api/v1/schedules/", bad, token))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("create rejects unknown tool", func(t *testing.T) {
		bad := create
		bad.Tools = []string{"not-in-catalog"}
		rr := env.do(t, testutil.AuthenticatedRequest(t, "POST", "/api/v1/schedules/", bad, token))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("create rejects empty tool list", func(t *testing.T) {
		bad := create
		bad.Tools = nil
		rr := env.do(t, testutil.AuthenticatedRequest(t, "POST", "/api/v1/schedules/", bad, token))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("list", func(t *testing.T) {
		rr := env.do(t, testutil.AuthenticatedRequest(t, "GET", "/api/v1/schedules/", nil, token))
		require.Equal(t, http.StatusOK, rr.Code)

		var list []dto.ScheduleResponse
		testutil.ParseJSONResponse(t, rr, &list)
		require.Len(t, list, 1)
		assert.Equal(t, created.ID, list[0].ID)
	})

	t.Run("update disables and retimes", func(t *testing.T) {
		enabled := false
		newTime := "14:00"
		rr := env.do(t, testutil.AuthenticatedRequest(t, "PUT", "/api/v1/schedules/"+created.ID, dto.UpdateScheduleRequest{
			TimeOfDay: &newTime,
			IsEnabled: &enabled,
		}, token))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var updated dto.ScheduleResponse
		testutil.ParseJSONResponse(t, rr, &updated)
		assert.Equal(t, "14:00", updated.TimeOfDay)
		assert.False(t, updated.IsEnabled)
	})

	t.Run("update replaces tools", func(t *testing.T) {
		rr := env.do(t, testutil.AuthenticatedRequest(t, "PUT", "/api/v1/schedules/"+created.ID, dto.UpdateScheduleRequest{
			Tools: []string{"nmap"},
		}, token))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var updated dto.ScheduleResponse
		testutil.ParseJSONResponse(t, rr, &updated)
		assert.Equal(t, []string{"nmap"}, updated.Tools)
	})

	t.Run("other user cannot touch the schedule", func(t *testing.T) {
		other := testutil.CreateTestUser(t, env.db, plan)
		otherToken := testutil.GenerateTestToken(t, env.jwt, other)

		rr := env.do(t, testutil.AuthenticatedRequest(t, "GET", "/api/v1/schedules/"+created.ID, nil, otherToken))
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = env.do(t, testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/schedules/"+created.ID, nil, otherToken))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rr := env.do(t, testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/schedules/"+created.ID, nil, token))
		require.Equal(t, http.StatusOK, rr.Code)

		rr = env.do(t, testutil.AuthenticatedRequest(t, "GET", "/api/v1/schedules/"+created.ID, nil, token))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
