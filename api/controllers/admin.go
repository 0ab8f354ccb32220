package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rizkybor/sts-jurysystem-sub000/api/models"
	"github.com/rizkybor/sts-jurysystem-sub000/api/transport"
	"github.com/rizkybor/sts-jurysystem-sub000/logging"
	"github.com/rizkybor/sts-jurysystem-sub000/storage"
)

// AdminController covers the organizer-side seeding flows: events, race
// settings and team registration.
type AdminController struct {
	events      storage.EventStorage
	teams       storage.TeamStorage
	settings    storage.RaceSettingStorage
	assignments storage.AssignmentStorage
}

func NewAdminController(events storage.EventStorage, teams storage.TeamStorage, settings storage.RaceSettingStorage, assignments storage.AssignmentStorage) *AdminController {
	return &AdminController{
		events:      events,
		teams:       teams,
		settings:    settings,
		assignments: assignments,
	}
}

func (c *AdminController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/admin", transport.AdminAuthMiddleware())

	group.POST("/events", c.createEvent)
	group.PUT("/events/:eventId/status", c.setEventStatus)
	group.PUT("/race-settings", c.upsertRaceSetting)
	group.POST("/teams", c.registerTeams)
	group.POST("/assignments", c.createAssignment)
}

// @Security AdminToken
// createEvent godoc
// @Summary Create an event
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.EventCreateRequest true "Event"
// @Success 201 {object} storage.Event
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/events [post]
func (c *AdminController) createEvent(g *gin.Context) {
	var req models.EventCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.Name == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "invalid request, missing eventName"})
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "startDate must be YYYY-MM-DD"})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "endDate must be YYYY-MM-DD"})
		return
	}

	event := &storage.Event{
		Name:      req.Name,
		Location:  req.Location,
		StartDate: start,
		EndDate:   end,
		Initials:  toCategoryRefs(req.Initials),
		Divisions: toCategoryRefs(req.Divisions),
		Races:     toCategoryRefs(req.Races),
		Officials: req.Officials,
		Status:    storage.EventActivated,
		CreatedAt: time.Now().UTC(),
	}

	id, err := c.events.Create(g.Request.Context(), event)
	if err != nil {
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Message: "could not create event"})
		return
	}

	logging.Log.Infof("ADMIN: created event %s (%s)", event.Name, id)
	g.JSON(http.StatusCreated, gin.H{"success": true, "id": id, "event": event})
}

// @Security AdminToken
// setEventStatus godoc
// @Summary Activate or deactivate an event
// @Tags admin
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param request body map[string]string true "Status"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/admin/events/{eventId}/status [put]
func (c *AdminController) setEventStatus(g *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "invalid request format"})
		return
	}
	if req.Status != storage.EventActivated && req.Status != storage.EventDeactivated {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "status must be Activated or Deactivated"})
		return
	}

	eventID := g.Param("eventId")
	if err := c.events.SetStatus(g.Request.Context(), eventID, req.Status); err != nil {
		if errors.Is(err, storage.ErrEventNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Message: "event not found"})
			return
		}
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Message: "could not update event"})
		return
	}

	logging.Log.Infof("ADMIN: event %s set to %s", eventID, req.Status)
	g.JSON(http.StatusOK, gin.H{"success": true, "status": req.Status})
}

// @Security AdminToken
// upsertRaceSetting godoc
// @Summary Set gate/section totals for an event
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.RaceSettingRequest true "Race setting"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/race-settings [put]
func (c *AdminController) upsertRaceSetting(g *gin.Context) {
	var req models.RaceSettingRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.EventID == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "invalid request, missing eventId"})
		return
	}
	if req.TotalGate < 0 || req.TotalSection < 0 {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "totals must not be negative"})
		return
	}

	setting := &storage.RaceSetting{
		EventID: req.EventID,
		Slalom:  storage.SlalomSetting{TotalGate: req.TotalGate},
		DRR:     storage.DRRSetting{TotalSection: req.TotalSection},
	}
	if err := c.settings.Upsert(g.Request.Context(), setting); err != nil {
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Message: "could not save race setting"})
		return
	}

	g.JSON(http.StatusOK, gin.H{"success": true, "message": "race setting saved"})
}

// @Security AdminToken
// registerTeams godoc
// @Summary Register the teams of one category slice and discipline
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.TeamGroupCreateRequest true "Team group"
// @Success 201 {object} storage.RegisteredTeamGroup
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Group already exists"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/teams [post]
func (c *AdminController) registerTeams(g *gin.Context) {
	var req models.TeamGroupCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.EventID == "" || len(req.Teams) == 0 {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "invalid request, missing eventId or teams"})
		return
	}
	if !models.ValidDisciplines[req.Discipline] {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "discipline must be SPRINT, SLALOM, H2H or DRR"})
		return
	}

	group := &storage.RegisteredTeamGroup{
		EventID:    req.EventID,
		InitialID:  req.InitialID,
		DivisionID: req.DivisionID,
		RaceID:     req.RaceID,
		Discipline: req.Discipline,
		Teams:      make([]storage.Team, 0, len(req.Teams)),
	}
	for _, t := range req.Teams {
		group.Teams = append(group.Teams, storage.Team{
			TeamID:    generateTeamID(),
			Name:      t.Name,
			BibNumber: t.BibNumber,
		})
	}

	if err := c.teams.CreateGroup(g.Request.Context(), group); err != nil {
		if errors.Is(err, storage.ErrItemAlreadyExists) {
			g.JSON(http.StatusConflict, &models.ErrorResponse{Message: "team group already exists for this category"})
			return
		}
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Message: "could not register teams"})
		return
	}

	logging.Log.Infof("ADMIN: registered %d teams for event %s discipline %s", len(group.Teams), req.EventID, req.Discipline)
	g.JSON(http.StatusCreated, group)
}

// @Security AdminToken
// createAssignment godoc
// @Summary Assign a judge to positions of an event discipline
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.AssignmentCreateRequest true "Assignment"
// @Success 201 {object} storage.UserJudgeAssignment
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/assignments [post]
func (c *AdminController) createAssignment(g *gin.Context) {
	var req models.AssignmentCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.Email == "" || req.EventID == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "invalid request, missing email or eventId"})
		return
	}
	if !models.ValidDisciplines[req.Discipline] {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "discipline must be SPRINT, SLALOM, H2H or DRR"})
		return
	}

	assignment := &storage.UserJudgeAssignment{
		Email:      req.Email,
		EventID:    req.EventID,
		Discipline: req.Discipline,
		Start:      req.Start,
		Finish:     req.Finish,
		Gates:      req.Gates,
		Sections:   req.Sections,
		Booyan:     req.Booyan,
	}
	if err := c.assignments.Create(g.Request.Context(), assignment); err != nil {
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Message: "could not create assignment"})
		return
	}

	logging.Log.Infof("ADMIN: assigned %s to event %s discipline %s", req.Email, req.EventID, req.Discipline)
	g.JSON(http.StatusCreated, assignment)
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", value)
}

func toCategoryRefs(names []string) []storage.CategoryRef {
	refs := make([]storage.CategoryRef, 0, len(names))
	for _, name := range names {
		refs = append(refs, storage.CategoryRef{ID: generateTeamID(), Name: name})
	}
	return refs
}

func generateTeamID() string {
	id, err := gonanoid.Generate(models.Alphabet, 8)
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to generate id: %v", err)
		return "ERROR"
	}
	return id
}
