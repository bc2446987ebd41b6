package handler

import (
	"context"
	"errors"

	"etudia/logger"
	"etudia/model"
	"etudia/repository"
	"etudia/usecase"
	"etudia/utils"

	"github.com/gin-gonic/gin"
)

const (
	msgDuplicateKey = "Duplicate key error."
	msgNoteNotFound = "note not found"
	msgUserNotFound = "user not found"
	msgInvalidBody  = "Invalid request body"
)

// respondError maps service errors onto status codes. notFound is the message
// used when the target record does not exist.
func respondError(c *gin.Context, err error, notFound string) {
	var validationErr *model.ValidationError

	switch {
	case errors.As(err, &validationErr):
		utils.BadRequest(c, validationErr.Error())
	case errors.Is(err, repository.ErrNotFound):
		utils.NotFound(c, notFound)
	case errors.Is(err, repository.ErrDuplicateKey):
		utils.TrackError("database", "duplicate_key")
		utils.BadRequest(c, msgDuplicateKey)
	case errors.Is(err, usecase.ErrInvalidPage):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, usecase.ErrInvalidOTP), errors.Is(err, usecase.ErrOTPNotEnrolled):
		utils.Unauthorized(c, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("request timed out")
		utils.InternalError(c, "request timed out")
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		utils.InternalError(c, err.Error())
	}
}
