package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-table-service/models"
	"github.com/yeremiapane/restaurant-table-service/utils"
)

var errInternal = errors.New("internal server error")

// httpStatusFor maps the domain error taxonomy onto HTTP statuses:
// bad input 400, missing resources 404, state/uniqueness conflicts 409.
func httpStatusFor(derr *models.DomainError) int {
	switch derr {
	case models.ErrInvalidCapacity,
		models.ErrUnknownArea,
		models.ErrUnknownMilestone,
		models.ErrInvalidMilestoneOrder:
		return http.StatusBadRequest
	case models.ErrTableNotFound,
		models.ErrTokenNotFound:
		return http.StatusNotFound
	case models.ErrDuplicateTableNumber,
		models.ErrInvalidTransition,
		models.ErrConcurrentModification,
		models.ErrSessionAlreadyOpen,
		models.ErrNoOpenSession,
		models.ErrSessionClosed,
		models.ErrAreaInUse,
		models.ErrDuplicateArea,
		models.ErrTableInUse:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondServiceError surfaces domain errors with their kind; anything else
// is an infrastructure failure and is logged and masked.
func respondServiceError(c *gin.Context, err error) {
	var derr *models.DomainError
	if errors.As(err, &derr) {
		utils.RespondDomainError(c, httpStatusFor(derr), derr)
		return
	}
	utils.ErrorLogger.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	utils.RespondError(c, http.StatusInternalServerError, errInternal)
}
