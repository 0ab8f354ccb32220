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

type SlalomController struct {
	teams       storage.TeamStorage
	settings    storage.RaceSettingStorage
	assignments storage.AssignmentStorage
	reports     storage.JudgeReportStorage
	notifier    *realtime.Notifier
}

func NewSlalomController(teams storage.TeamStorage, settings storage.RaceSettingStorage, assignments storage.AssignmentStorage, reports storage.JudgeReportStorage, notifier *realtime.Notifier) *SlalomController {
	return &SlalomController{
		teams:       teams,
		settings:    settings,
		assignments: assignments,
		reports:     reports,
		notifier:    notifier,
	}
}

func (c *SlalomController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/judges", transport.JudgeAuthMiddleware())

	group.POST("/slalom", c.submitPenalty)
}

// @Security JudgeEmail
// submitPenalty godoc
// @Summary Record a slalom penalty
// @Description Records a gate, start or finish penalty for one team's run
// @Tags judges
// @Accept json
// @Produce json
// @Param submission body models.SlalomSubmitRequest true "Slalom submission"
// @Success 201 {object} models.SubmitResponse
// @Failure 400 {object} models.ErrorResponse "Invalid submission"
// @Failure 403 {object} models.ErrorResponse "Judge not assigned"
// @Failure 404 {object} models.ErrorResponse "Team or group not found"
// @Failure 500 {object} models.ErrorResponse "Unexpected internal error"
// @Router /api/judges/slalom [post]
func (c *SlalomController) submitPenalty(g *gin.Context) {
	var req models.SlalomSubmitRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "invalid request format"})
		return
	}
	if req.EventID == "" || req.Team == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "missing required fields: eventId, team"})
		return
	}
	if req.RunNumber < 1 {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "runNumber must be at least 1"})
		return
	}

	operation := req.Operation
	if operation == "" {
		operation = models.OperationGate
	}

	penalty, err := models.CoercePenalty(req.Penalty)
	if err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "penalty must be numeric"})
		return
	}

	config, err := c.settings.Resolve(g.Request.Context(), req.EventID)
	if err != nil {
		logging.Log.Errorf("SLALOM: failed to resolve race settings: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Message: "could not resolve race settings"})
		return
	}

	key := storage.GroupKey{
		EventID:    req.EventID,
		InitialID:  req.InitialID,
		DivisionID: req.DivisionID,
		RaceID:     req.RaceID,
		Discipline: storage.DisciplineSlalom,
	}
	judge := judgeEmail(g)
	now := time.Now().UTC()

	detail := &storage.JudgeReportDetail{
		EventID:    req.EventID,
		Discipline: storage.DisciplineSlalom,
		TeamID:     req.Team,
		RunNumber:  req.RunNumber,
		Penalty:    penalty,
		JudgeID:    judge,
		CreatedAt:  now,
	}

	switch operation {
	case models.OperationGate:
		if req.GateNumber < 1 {
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "gateNumber is required"})
			return
		}
		if req.GateNumber > config.TotalGates {
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{
				Message: fmt.Sprintf("gate number %d exceeds total gates (%d)", req.GateNumber, config.TotalGates),
			})
			return
		}
		if !authorizeJudge(g, c.assignments, req.EventID, storage.DisciplineSlalom, storage.AssignmentClaim{Gate: req.GateNumber}) {
			return
		}
		detail.GateNumber = req.GateNumber
		err = c.teams.SetSlalomGatePenalty(g.Request.Context(), key, req.Team, req.RunNumber, req.GateNumber, config.TotalGates, penalty, judge, now)

	case models.OperationStart, models.OperationFinish:
		position := storage.PositionStart
		if operation == models.OperationFinish {
			position = storage.PositionFinish
		}
		if !authorizeJudge(g, c.assignments, req.EventID, storage.DisciplineSlalom, storage.AssignmentClaim{Position: position}) {
			return
		}
		detail.Position = position
		err = c.teams.SetSlalomRunPenalty(g.Request.Context(), key, req.Team, req.RunNumber, position, penalty, config.TotalGates, judge, now)

	default:
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "operation must be gate, start or finish"})
		return
	}

	if err != nil {
		respondStorageError(g, err)
		return
	}

	if _, err := c.reports.AppendDetail(g.Request.Context(), detail); err != nil {
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Message: "penalty recorded but ledger entry failed"})
		return
	}

	c.notifier.Publish(realtime.SubmissionEvent{
		Type:       "penalty",
		EventID:    req.EventID,
		Discipline: storage.DisciplineSlalom,
		TeamID:     req.Team,
		Detail:     fmt.Sprintf("run %d %s penalty %.0f", req.RunNumber, operationLabel(operation, req.GateNumber), penalty),
		Judge:      judge,
		Timestamp:  now,
	})

	group, err := c.teams.GetGroup(g.Request.Context(), key)
	if err != nil {
		respondStorageError(g, err)
		return
	}

	g.JSON(http.StatusCreated, &models.SubmitResponse{
		Success:         true,
		Message:         "slalom penalty recorded",
		TeamsRegistered: group,
	})
}

func operationLabel(operation string, gateNumber int) string {
	if operation == models.OperationGate {
		return fmt.Sprintf("gate %d", gateNumber)
	}
	return operation
}
