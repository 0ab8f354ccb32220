package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	testutils "github.com/rizkybor/sts-jurysystem-sub000/api/controllers/testing"
	"github.com/rizkybor/sts-jurysystem-sub000/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminHeaders() map[string]string {
	return map[string]string{"x-admin-token": "test-secret"}
}

func TestAdminEndpoints(t *testing.T) {
	t.Setenv("ADMIN_TOKEN", "test-secret")

	t.Run("Happy path - register teams generates team ids", func(t *testing.T) {
		env := setupTestRouter(t)

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/admin/teams", gin.H{
			"eventId": testEvent, "initialId": "I1", "divisionId": "D1", "raceId": "R1",
			"discipline": storage.DisciplineSlalom,
			"teams": []gin.H{
				{"teamName": "River Foxes", "bibNumber": "7"},
				{"teamName": "Rapid Rats", "bibNumber": "12"},
			},
		}, adminHeaders())
		require.Equal(t, http.StatusCreated, res.Code)

		var group storage.RegisteredTeamGroup
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &group))
		require.Len(t, group.Teams, 2)
		assert.NotEmpty(t, group.Teams[0].TeamID)
		assert.NotEqual(t, group.Teams[0].TeamID, group.Teams[1].TeamID)
	})

	t.Run("Unhappy path - duplicate group rejected", func(t *testing.T) {
		env := setupTestRouter(t)
		env.seedGroup(storage.DisciplineSlalom, storage.Team{TeamID: "T1", Name: "River Foxes", BibNumber: "7"})

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/admin/teams", gin.H{
			"eventId": testEvent, "initialId": "I1", "divisionId": "D1", "raceId": "R1",
			"discipline": storage.DisciplineSlalom,
			"teams":      []gin.H{{"teamName": "River Foxes", "bibNumber": "7"}},
		}, adminHeaders())
		assert.Equal(t, http.StatusConflict, res.Code)
	})

	t.Run("Happy path - upsert race setting", func(t *testing.T) {
		env := setupTestRouter(t)

		res := testutils.PerformRequest(env.router, http.MethodPut, "/api/admin/race-settings", gin.H{
			"eventId": testEvent, "totalGate": 10, "totalSection": 4,
		}, adminHeaders())
		require.Equal(t, http.StatusOK, res.Code)

		setting := env.settings.byEvent[testEvent]
		require.NotNil(t, setting)
		assert.Equal(t, 10, setting.Slalom.TotalGate)
		assert.Equal(t, 4, setting.DRR.TotalSection)
	})

	t.Run("Happy path - create event and toggle status", func(t *testing.T) {
		env := setupTestRouter(t)

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/admin/events", gin.H{
			"eventName": "Summer Cup", "location": "Citarik",
			"startDate": "2026-09-12", "endDate": "2026-09-14",
			"initials": []string{"Open"}, "divisions": []string{"Men"}, "races": []string{"Final"},
		}, adminHeaders())
		require.Equal(t, http.StatusCreated, res.Code)

		var created struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))
		require.NotEmpty(t, created.ID)

		res = testutils.PerformRequest(env.router, http.MethodPut,
			"/api/admin/events/"+created.ID+"/status", gin.H{"status": storage.EventDeactivated}, adminHeaders())
		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, storage.EventDeactivated, env.events.byID[created.ID].Status)
	})

	t.Run("Unhappy path - invalid status value", func(t *testing.T) {
		env := setupTestRouter(t)
		res := testutils.PerformRequest(env.router, http.MethodPut,
			"/api/admin/events/abc/status", gin.H{"status": "Paused"}, adminHeaders())
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("Unhappy path - missing admin token", func(t *testing.T) {
		env := setupTestRouter(t)
		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/admin/teams", gin.H{}, nil)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})
}
