package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-recipe-api/internal/application"
	"github.com/oksasatya/go-recipe-api/internal/interface/middleware"
	"github.com/oksasatya/go-recipe-api/pkg/response"
)

type IngredientHandler struct {
	Svc    *app.IngredientService
	Logger *logrus.Logger
}

func NewIngredientHandler(svc *app.IngredientService, logger *logrus.Logger) *IngredientHandler {
	return &IngredientHandler{Svc: svc, Logger: logger}
}

type listIngredientsQuery struct {
	AssignedOnly string `form:"assigned_only" binding:"omitempty,oneof=0 1"`
}

type updateIngredientRequest struct {
	Name *string `json:"name" form:"name" binding:"omitnil,ingredientname"`
}

type searchIngredientsQuery struct {
	Q    string `form:"q"`
	Size int    `form:"size" binding:"omitempty,min=0"`
}

func (h *IngredientHandler) List(c *gin.Context) {
	var q listIngredientsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidPayload(c, err)
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	items, err := h.Svc.List(c.Request.Context(), uid, q.AssignedOnly == "1")
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toIngredients(items), "ingredients", map[string]any{"count": len(items)})
}

func (h *IngredientHandler) Update(c *gin.Context) {
	var req updateIngredientRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		invalidPayload(c, err)
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"name": "must not be blank"})
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	ing, err := h.Svc.Update(c.Request.Context(), uid, c.Param("id"), app.UpdateIngredientInput{Name: req.Name})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toIngredient(*ing), "ingredient updated", nil)
}

func (h *IngredientHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}

func (h *IngredientHandler) Search(c *gin.Context) {
	var q searchIngredientsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidPayload(c, err)
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	items, err := h.Svc.Search(c.Request.Context(), uid, q.Q, q.Size)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toIngredients(items), "ingredients", map[string]any{"count": len(items)})
}
