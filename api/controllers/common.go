package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rizkybor/sts-jurysystem-sub000/api/models"
	"github.com/rizkybor/sts-jurysystem-sub000/api/transport"
	"github.com/rizkybor/sts-jurysystem-sub000/logging"
	"github.com/rizkybor/sts-jurysystem-sub000/storage"
)

// judgeEmail returns the identity the auth middleware stored on the context.
func judgeEmail(g *gin.Context) string {
	return g.GetString(transport.JudgeEmailKey)
}

// authorizeJudge checks the submission against the judge's assignment
// records. The check lives server-side: a client withholding options is not
// an authorization mechanism.
func authorizeJudge(g *gin.Context, assignments storage.AssignmentStorage, eventID, discipline string, claim storage.AssignmentClaim) bool {
	email := judgeEmail(g)

	records, err := assignments.GetByEmail(g.Request.Context(), email)
	if err != nil {
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Message: "could not verify judge assignment"})
		return false
	}
	for _, a := range records {
		if a.Allows(eventID, discipline, claim) {
			return true
		}
	}

	logging.Log.Warnf("JUDGE: %s is not assigned to %s/%s %+v", email, eventID, discipline, claim)
	g.JSON(http.StatusForbidden, &models.ErrorResponse{Message: "judge is not assigned to this position"})
	return false
}

// respondStorageError maps storage sentinels onto the error envelope. Raw
// datastore errors stay in the log, not in the response body.
func respondStorageError(g *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrGroupNotFound):
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Message: "no registered teams found for this category"})
	case errors.Is(err, storage.ErrTeamNotFound):
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Message: "team not found in registered group"})
	case errors.Is(err, storage.ErrDuplicateSubmission):
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Message: "penalty already recorded for this position"})
	case errors.Is(err, storage.ErrConflict):
		g.JSON(http.StatusConflict, &models.ErrorResponse{Message: "conflicting submission in progress, please retry"})
	default:
		logging.Log.Errorf("storage error: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Message: "unexpected storage error"})
	}
}
