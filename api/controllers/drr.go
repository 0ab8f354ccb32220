package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rizkybor/sts-jurysystem-sub000/api/models"
	"github.com/rizkybor/sts-jurysystem-sub000/api/transport"
	"github.com/rizkybor/sts-jurysystem-sub000/logging"
	"github.com/rizkybor/sts-jurysystem-sub000/realtime"
	"github.com/rizkybor/sts-jurysystem-sub000/storage"
)

type DRRController struct {
	teams       storage.TeamStorage
	settings    storage.RaceSettingStorage
	assignments storage.AssignmentStorage
	reports     storage.JudgeReportStorage
	notifier    *realtime.Notifier
}

func NewDRRController(teams storage.TeamStorage, settings storage.RaceSettingStorage, assignments storage.AssignmentStorage, reports storage.JudgeReportStorage, notifier *realtime.Notifier) *DRRController {
	return &DRRController{
		teams:       teams,
		settings:    settings,
		assignments: assignments,
		reports:     reports,
		notifier:    notifier,
	}
}

func (c *DRRController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/judges", transport.JudgeAuthMiddleware())

	group.POST("/drr", c.submitPenalty)
}

// @Security JudgeEmail
// submitPenalty godoc
// @Summary Record a down-river-race section penalty
// @Description Records a penalty against one section of a team's DRR result
// @Tags judges
// @Accept json
// @Produce json
// @Param submission body models.DRRSubmitRequest true "DRR submission"
// @Success 201 {object} models.SubmitResponse
// @Failure 400 {object} models.ErrorResponse "Invalid submission"
// @Failure 403 {object} models.ErrorResponse "Judge not assigned"
// @Failure 404 {object} models.ErrorResponse "Team or group not found"
// @Failure 500 {object} models.ErrorResponse "Unexpected internal error"
// @Router /api/judges/drr [post]
func (c *DRRController) submitPenalty(g *gin.Context) {
	var req models.DRRSubmitRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "invalid request format"})
		return
	}
	if req.EventID == "" || req.Team == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "missing required fields: eventId, team"})
		return
	}

	penalty, err := models.CoercePenalty(req.Penalty)
	if err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "penalty must be numeric"})
		return
	}

	config, err := c.settings.Resolve(g.Request.Context(), req.EventID)
	if err != nil {
		logging.Log.Errorf("DRR: failed to resolve race settings: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Message: "could not resolve race settings"})
		return
	}

	if req.Section < 1 {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "section is required"})
		return
	}
	if req.Section > config.TotalSections {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{
			Message: fmt.Sprintf("section %d exceeds total sections (%d)", req.Section, config.TotalSections),
		})
		return
	}

	if !authorizeJudge(g, c.assignments, req.EventID, storage.DisciplineDRR, storage.AssignmentClaim{Section: req.Section}) {
		return
	}

	key := storage.GroupKey{
		EventID:    req.EventID,
		InitialID:  req.InitialID,
		DivisionID: req.DivisionID,
		RaceID:     req.RaceID,
		Discipline: storage.DisciplineDRR,
	}
	judge := judgeEmail(g)
	now := time.Now().UTC()

	if err := c.teams.SetDRRSectionPenalty(g.Request.Context(), key, req.Team, req.Section, config.TotalSections, penalty, judge, now); err != nil {
		respondStorageError(g, err)
		return
	}

	detail := &storage.JudgeReportDetail{
		EventID:    req.EventID,
		Discipline: storage.DisciplineDRR,
		TeamID:     req.Team,
		Section:    req.Section,
		Penalty:    penalty,
		JudgeID:    judge,
		CreatedAt:  now,
	}
	if _, err := c.reports.AppendDetail(g.Request.Context(), detail); err != nil {
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Message: "penalty recorded but ledger entry failed"})
		return
	}

	c.notifier.Publish(realtime.SubmissionEvent{
		Type:       "penalty",
		EventID:    req.EventID,
		Discipline: storage.DisciplineDRR,
		TeamID:     req.Team,
		Detail:     fmt.Sprintf("section %d penalty %.0f", req.Section, penalty),
		Judge:      judge,
		Timestamp:  now,
	})

	group, err := c.teams.GetGroup(g.Request.Context(), key)
	if err != nil {
		respondStorageError(g, err)
		return
	}

	g.JSON(http.StatusCreated, &models.SubmitResponse{
		Success: true,
		Message: "drr penalty recorded",
		Data:    group,
	})
}
