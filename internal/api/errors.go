package api

import (
	"errors"
	"net/http"

	"fitweek/fitness-tracker/internal/domain"
	"fitweek/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondServiceError maps service/domain errors to HTTP statuses. Unknown
// users are 401 on every endpoint; unknown routines and ledger dates are
// 404; limit, duplicate-date and incomplete-set conditions are 409 so the
// client can show them as blocking messages rather than generic failures.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrAuthenticationFailed),
		errors.Is(err, service.ErrOAuthExchange):
		abortWithError(c, http.StatusUnauthorized, err.Error())

	case errors.Is(err, domain.ErrRoutineNotFound),
		errors.Is(err, domain.ErrEmptySession),
		errors.Is(err, service.ErrEntryNotFound),
		errors.Is(err, service.ErrNoAvatar):
		abortWithError(c, http.StatusNotFound, err.Error())

	case errors.Is(err, domain.ErrLimitExceeded),
		errors.Is(err, domain.ErrDuplicateDate),
		errors.Is(err, domain.ErrIncompleteSets),
		errors.Is(err, service.ErrUserAlreadyExists):
		abortWithError(c, http.StatusConflict, err.Error())

	case errors.Is(err, domain.ErrInvalidExercise),
		errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidMemo),
		errors.Is(err, domain.ErrInvalidProgress):
		abortWithError(c, http.StatusBadRequest, err.Error())

	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
