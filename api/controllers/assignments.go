package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rizkybor/sts-jurysystem-sub000/api/models"
	"github.com/rizkybor/sts-jurysystem-sub000/storage"
)

type AssignmentController struct {
	assignments storage.AssignmentStorage
}

func NewAssignmentController(assignments storage.AssignmentStorage) *AssignmentController {
	return &AssignmentController{
		assignments: assignments,
	}
}

func (c *AssignmentController) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/api/assignments", c.getByEmail)
}

// getByEmail godoc
// @Summary Get a judge's assignments
// @Description Returns the event/discipline/position combinations a judge may report on
// @Tags assignments
// @Produce json
// @Param email query string true "Judge email"
// @Success 200 {object} models.AssignmentsResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/assignments [get]
func (c *AssignmentController) getByEmail(g *gin.Context) {
	email := g.Query("email")
	if email == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "email is required"})
		return
	}

	assignments, err := c.assignments.GetByEmail(g.Request.Context(), email)
	if err != nil {
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Message: "could not load assignments"})
		return
	}

	g.JSON(http.StatusOK, &models.AssignmentsResponse{
		Success:     true,
		Assignments: assignments,
	})
}
