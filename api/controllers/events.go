package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rizkybor/sts-jurysystem-sub000/api/models"
	"github.com/rizkybor/sts-jurysystem-sub000/logging"
	"github.com/rizkybor/sts-jurysystem-sub000/storage"
)

type EventController struct {
	events storage.EventStorage
	teams  storage.TeamStorage
}

func NewEventController(events storage.EventStorage, teams storage.TeamStorage) *EventController {
	return &EventController{
		events: events,
		teams:  teams,
	}
}

func (c *EventController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/events")

	group.GET("", c.listEvents)
	group.GET("/:eventId/judge-tasks", c.judgeTasks)
}

// listEvents godoc
// @Summary List events
// @Tags events
// @Produce json
// @Success 200 {array} storage.Event
// @Failure 500 {object} models.ErrorResponse
// @Router /api/events [get]
func (c *EventController) listEvents(g *gin.Context) {
	events, err := c.events.GetAll(g.Request.Context())
	if err != nil {
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Message: "could not list events"})
		return
	}
	g.JSON(http.StatusOK, events)
}

// judgeTasks godoc
// @Summary Flattened team list for a judge's category slice
// @Tags events
// @Produce json
// @Param eventId path string true "Event ID"
// @Param initialId query string false "Initial ID"
// @Param divisionId query string false "Division ID"
// @Param raceId query string false "Race ID"
// @Param eventName query string false "Display name fallback"
// @Success 200 {object} models.JudgeTasksResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/events/{eventId}/judge-tasks [get]
func (c *EventController) judgeTasks(g *gin.Context) {
	eventID := g.Param("eventId")

	eventName := g.Query("eventName")
	event, err := c.events.Get(g.Request.Context(), eventID)
	if err == nil {
		eventName = event.Name
	} else if !errors.Is(err, storage.ErrEventNotFound) {
		logging.Log.Errorf("EVENTS: failed to load event %s: %v", eventID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Message: "could not load event"})
		return
	}

	groups, err := c.teams.GetGroupsByCategory(g.Request.Context(), eventID,
		g.Query("initialId"), g.Query("divisionId"), g.Query("raceId"))
	if err != nil {
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Message: "could not load registered teams"})
		return
	}
	if len(groups) == 0 {
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Message: "no registered teams found for this category"})
		return
	}

	g.JSON(http.StatusOK, &models.JudgeTasksResponse{
		Success:   true,
		EventID:   eventID,
		EventName: eventName,
		Tasks:     models.TransformGroupsToTasks(groups),
	})
}
