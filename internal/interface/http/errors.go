package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-recipe-api/internal/application"
	"github.com/oksasatya/go-recipe-api/pkg/helpers"
	"github.com/oksasatya/go-recipe-api/pkg/response"
	"github.com/oksasatya/go-recipe-api/pkg/validation"
)

// respondError maps application errors onto HTTP statuses. Anything unknown
// is logged and answered with a generic 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, app.ErrIngredientNotFound),
		errors.Is(err, app.ErrRecipeNotFound),
		errors.Is(err, app.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, app.ErrIngredientNameTaken):
		response.Error[any](c, http.StatusConflict, "ingredient with this name already exists", nil)
	case errors.Is(err, app.ErrEmailTaken):
		response.Error[any](c, http.StatusConflict, "email already registered", nil)
	case errors.Is(err, app.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, helpers.ErrPasswordTooLong):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"password": err.Error()})
	case errors.Is(err, app.ErrImageStorageUnavailable):
		response.Error[any](c, http.StatusServiceUnavailable, "image storage unavailable", nil)
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		})
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

func invalidPayload(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}
