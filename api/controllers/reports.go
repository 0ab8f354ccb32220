package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rizkybor/sts-jurysystem-sub000/api/models"
	"github.com/rizkybor/sts-jurysystem-sub000/api/transport"
	"github.com/rizkybor/sts-jurysystem-sub000/logging"
	"github.com/rizkybor/sts-jurysystem-sub000/realtime"
	"github.com/rizkybor/sts-jurysystem-sub000/storage"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// JudgeReportController is the unified dispatcher: one endpoint accepts
// submissions for all four disciplines, updates the team result and keeps
// the append-only ledger.
type JudgeReportController struct {
	teams       storage.TeamStorage
	settings    storage.RaceSettingStorage
	assignments storage.AssignmentStorage
	reports     storage.JudgeReportStorage
	notifier    *realtime.Notifier
}

func NewJudgeReportController(teams storage.TeamStorage, settings storage.RaceSettingStorage, assignments storage.AssignmentStorage, reports storage.JudgeReportStorage, notifier *realtime.Notifier) *JudgeReportController {
	return &JudgeReportController{
		teams:       teams,
		settings:    settings,
		assignments: assignments,
		reports:     reports,
		notifier:    notifier,
	}
}

func (c *JudgeReportController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/judges", transport.JudgeAuthMiddleware())

	group.POST("/judge-reports/detail", c.submitDetail)
	group.GET("/judge-reports/detail", c.listDetails)
}

// @Security JudgeEmail
// submitDetail godoc
// @Summary Submit a judge report for any discipline
// @Description Dispatches on eventType (SPRINT, SLALOM, H2H, DRR), updates the team result and appends a ledger record
// @Tags judges
// @Accept json
// @Produce json
// @Param submission body models.JudgeReportSubmitRequest true "Discriminated submission"
// @Success 201 {object} models.SubmitResponse
// @Failure 400 {object} models.ErrorResponse "Invalid submission"
// @Failure 403 {object} models.ErrorResponse "Judge not assigned"
// @Failure 404 {object} models.ErrorResponse "Team or group not found"
// @Failure 500 {object} models.ErrorResponse "Unexpected internal error"
// @Router /api/judges/judge-reports/detail [post]
func (c *JudgeReportController) submitDetail(g *gin.Context) {
	var req models.JudgeReportSubmitRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "invalid request format"})
		return
	}
	if req.EventType == "" || req.EventID == "" || req.Team == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "missing required fields: eventType, eventId, team"})
		return
	}
	if !models.ValidDisciplines[req.EventType] {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "eventType must be SPRINT, SLALOM, H2H or DRR"})
		return
	}

	penalty, err := models.CoercePenalty(req.Penalty)
	if err != nil && req.EventType != storage.DisciplineH2H {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "penalty must be numeric"})
		return
	}

	judgeID := req.Judge
	if judgeID == "" {
		judgeID = judgeEmail(g)
	}
	now := time.Now().UTC()

	key := storage.GroupKey{
		EventID:    req.EventID,
		InitialID:  req.InitialID,
		DivisionID: req.DivisionID,
		RaceID:     req.RaceID,
		Discipline: req.EventType,
	}

	detail := &storage.JudgeReportDetail{
		EventID:    req.EventID,
		Discipline: req.EventType,
		TeamID:     req.Team,
		Penalty:    penalty,
		JudgeID:    judgeID,
		JudgeName:  req.JudgeName,
		CreatedAt:  now,
	}

	switch req.EventType {
	case storage.DisciplineSprint:
		if !models.ValidPositions[req.Position] {
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "position must be START or FINISH"})
			return
		}
		if !authorizeJudge(g, c.assignments, req.EventID, storage.DisciplineSprint, storage.AssignmentClaim{Position: req.Position}) {
			return
		}
		detail.Position = req.Position
		err = c.teams.SetSprintPenalty(g.Request.Context(), key, req.Team, req.Position, penalty, judgeID, now)

	case storage.DisciplineSlalom:
		if req.RunNumber < 1 {
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "runNumber must be at least 1"})
			return
		}
		config, cfgErr := c.settings.Resolve(g.Request.Context(), req.EventID)
		if cfgErr != nil {
			logging.Log.Errorf("DISPATCH: failed to resolve race settings: %v", cfgErr)
			g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Message: "could not resolve race settings"})
			return
		}
		detail.RunNumber = req.RunNumber

		operation := req.Operation
		if operation == "" {
			operation = models.OperationGate
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
			err = c.teams.SetSlalomGatePenalty(g.Request.Context(), key, req.Team, req.RunNumber, req.GateNumber, config.TotalGates, penalty, judgeID, now)
		case models.OperationStart, models.OperationFinish:
			position := storage.PositionStart
			if operation == models.OperationFinish {
				position = storage.PositionFinish
			}
			if !authorizeJudge(g, c.assignments, req.EventID, storage.DisciplineSlalom, storage.AssignmentClaim{Position: position}) {
				return
			}
			detail.Position = position
			err = c.teams.SetSlalomRunPenalty(g.Request.Context(), key, req.Team, req.RunNumber, position, penalty, config.TotalGates, judgeID, now)
		default:
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "operation must be gate, start or finish"})
			return
		}

	case storage.DisciplineDRR:
		config, cfgErr := c.settings.Resolve(g.Request.Context(), req.EventID)
		if cfgErr != nil {
			logging.Log.Errorf("DISPATCH: failed to resolve race settings: %v", cfgErr)
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
		detail.Section = req.Section
		err = c.teams.SetDRRSectionPenalty(g.Request.Context(), key, req.Team, req.Section, config.TotalSections, penalty, judgeID, now)

	case storage.DisciplineH2H:
		if req.Heat < 1 {
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "heat must be at least 1"})
			return
		}
		if !authorizeJudge(g, c.assignments, req.EventID, storage.DisciplineH2H, storage.AssignmentClaim{Booyan: true}) {
			return
		}
		booyan := req.Booyan != nil && *req.Booyan
		passed := req.Passed != nil && *req.Passed
		detail.Heat = req.Heat
		detail.Booyan = &booyan
		err = c.teams.SetH2HResult(g.Request.Context(), key, req.Team, req.Heat, booyan, passed, judgeID, now)
	}

	if err != nil {
		respondStorageError(g, err)
		return
	}

	// Best-effort team label for the ledger record.
	if name, bib, lookupErr := c.teams.FindTeamLabel(g.Request.Context(), req.EventID, req.Team); lookupErr == nil {
		detail.TeamLabel = fmt.Sprintf("%s (#%s)", name, bib)
	}

	reportID, err := c.reports.AppendDetail(g.Request.Context(), detail)
	if err != nil {
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Message: "penalty recorded but ledger entry failed"})
		return
	}

	c.notifier.Publish(realtime.SubmissionEvent{
		Type:       "judge-report",
		EventID:    req.EventID,
		Discipline: req.EventType,
		TeamID:     req.Team,
		Team:       detail.TeamLabel,
		Detail:     fmt.Sprintf("%s submission by %s", req.EventType, judgeID),
		Judge:      judgeID,
		Timestamp:  now,
	})

	updatedTeam := c.lookupTeam(g, key, req.Team)

	g.JSON(http.StatusCreated, &models.SubmitResponse{
		Success:       true,
		Message:       "judge report recorded",
		Data:          detail,
		JudgeReportID: reportID.Hex(),
		UpdatedTeam:   updatedTeam,
	})
}

func (c *JudgeReportController) lookupTeam(g *gin.Context, key storage.GroupKey, teamID string) *storage.Team {
	group, err := c.teams.GetGroup(g.Request.Context(), key)
	if err != nil {
		return nil
	}
	for i := range group.Teams {
		if group.Teams[i].TeamID == teamID {
			return &group.Teams[i]
		}
	}
	return nil
}

// @Security JudgeEmail
// listDetails godoc
// @Summary List judge report details
// @Description Filtered, paginated retrieval of ledger records, enriched with team name/bib
// @Tags judges
// @Produce json
// @Param eventId query string false "Event ID"
// @Param eventType query string false "Discipline"
// @Param team query string false "Team ID"
// @Param judge query string false "Judge ID (exact)"
// @Param judges query string false "Judge IDs (comma separated)"
// @Param judgeLike query string false "Judge ID (partial)"
// @Param mine query bool false "Only the session judge's records"
// @Param createdFrom query string false "RFC3339 lower bound"
// @Param createdTo query string false "RFC3339 upper bound"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Param sortBy query string false "Sort field"
// @Param sort query string false "asc or desc"
// @Success 200 {object} models.DetailListResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/judges/judge-reports/detail [get]
func (c *JudgeReportController) listDetails(g *gin.Context) {
	filter := storage.DetailFilter{
		EventID:    g.Query("eventId"),
		Discipline: g.Query("eventType"),
		TeamID:     g.Query("team"),
		Judge:      g.Query("judge"),
		JudgeLike:  g.Query("judgeLike"),
		SortBy:     g.Query("sortBy"),
		SortAsc:    g.Query("sort") == "asc",
	}

	if judges := g.Query("judges"); judges != "" {
		filter.Judges = strings.Split(judges, ",")
	}
	if g.Query("mine") == "true" {
		filter.Judge = judgeEmail(g)
		filter.Judges = nil
		filter.JudgeLike = ""
	}

	if from := g.Query("createdFrom"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "createdFrom must be RFC3339"})
			return
		}
		filter.CreatedFrom = &t
	}
	if to := g.Query("createdTo"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "createdTo must be RFC3339"})
			return
		}
		filter.CreatedTo = &t
	}

	filter.Page, _ = strconv.Atoi(g.DefaultQuery("page", "1"))
	if filter.Page < 1 {
		filter.Page = 1
	}
	filter.Limit, _ = strconv.Atoi(g.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	details, total, err := c.reports.ListDetails(g.Request.Context(), filter)
	if err != nil {
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Message: "could not list judge reports"})
		return
	}

	// Enrichment degrades to placeholders, never fails the request.
	type label struct{ name, bib string }
	labels := make(map[string]label)
	data := make([]models.DetailResponse, 0, len(details))
	for _, d := range details {
		cacheKey := d.EventID + "/" + d.TeamID
		l, ok := labels[cacheKey]
		if !ok {
			name, bib, lookupErr := c.teams.FindTeamLabel(g.Request.Context(), d.EventID, d.TeamID)
			if lookupErr != nil {
				name, bib = "Unknown team", "-"
			}
			l = label{name: name, bib: bib}
			labels[cacheKey] = l
		}
		data = append(data, models.TransformDetailFromStorage(d, l.name, l.bib))
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}

	g.JSON(http.StatusOK, &models.DetailListResponse{
		Success: true,
		Meta: models.ListMeta{
			Page:       filter.Page,
			Limit:      filter.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
		Data: data,
	})
}
