package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-recipe-api/internal/application"
	"github.com/oksasatya/go-recipe-api/internal/interface/middleware"
	"github.com/oksasatya/go-recipe-api/pkg/response"
)

// MaxImageSize caps recipe image uploads.
const MaxImageSize = 10 << 20

type RecipeHandler struct {
	Svc    *app.RecipeService
	Logger *logrus.Logger
}

func NewRecipeHandler(svc *app.RecipeService, logger *logrus.Logger) *RecipeHandler {
	return &RecipeHandler{Svc: svc, Logger: logger}
}

type ingredientRef struct {
	Name string `json:"name" binding:"required,ingredientname"`
}

// Price accepts both 4.5 and "4.50".
type createRecipeRequest struct {
	Title       string          `json:"title" binding:"required,max=255"`
	TimeMinutes int             `json:"time_minutes" binding:"required,gt=0"`
	Price       json.Number     `json:"price" binding:"required,money"`
	Description string          `json:"description"`
	Link        string          `json:"link" binding:"omitempty,url,max=255"`
	Ingredients []ingredientRef `json:"ingredients" binding:"omitempty,dive"`
}

type updateRecipeRequest struct {
	Title       *string          `json:"title" binding:"omitnil,min=1,max=255"`
	TimeMinutes *int             `json:"time_minutes" binding:"omitnil,gt=0"`
	Price       *json.Number     `json:"price" binding:"omitnil,money"`
	Description *string          `json:"description"`
	Link        *string          `json:"link" binding:"omitempty,url,max=255"`
	Ingredients *[]ingredientRef `json:"ingredients" binding:"omitnil,dive"`
}

type listRecipesQuery struct {
	Ingredients string `form:"ingredients"`
}

func ingredientNames(refs []ingredientRef) []string {
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		names = append(names, r.Name)
	}
	return names
}

func parsePrice(n json.Number) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(string(n)))
}

func (h *RecipeHandler) List(c *gin.Context) {
	var q listRecipesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidPayload(c, err)
		return
	}
	var ids []string
	for _, id := range strings.Split(q.Ingredients, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	items, err := h.Svc.List(c.Request.Context(), uid, ids)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toRecipes(items), "recipes", map[string]any{"count": len(items)})
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"price": "must be a decimal"})
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	rec, err := h.Svc.Create(c.Request.Context(), uid, app.CreateRecipeInput{
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
		TimeMinutes: req.TimeMinutes,
		Price:       price,
		Ingredients: ingredientNames(req.Ingredients),
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toRecipe(*rec), "recipe created", nil)
}

func (h *RecipeHandler) Get(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	rec, err := h.Svc.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toRecipe(*rec), "recipe", nil)
}

func (h *RecipeHandler) Update(c *gin.Context) {
	var req updateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		invalidPayload(c, err)
		return
	}
	in := app.UpdateRecipeInput{
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
		TimeMinutes: req.TimeMinutes,
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"price": "must be a decimal"})
			return
		}
		in.Price = &price
	}
	if req.Ingredients != nil {
		names := ingredientNames(*req.Ingredients)
		in.Ingredients = &names
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	rec, err := h.Svc.Update(c.Request.Context(), uid, c.Param("id"), in)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toRecipe(*rec), "recipe updated", nil)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}

// UploadImage expects a multipart form with an "image" file part.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"image": "is required"})
		return
	}
	if fh.Size > MaxImageSize {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"image": "file too large"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	head = head[:n]
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"image": "must be an image"})
		return
	}

	body := io.MultiReader(bytes.NewReader(head), f)
	uid := c.GetString(middleware.CtxUserIDKey)
	rec, err := h.Svc.UploadImage(c.Request.Context(), uid, c.Param("id"), body, fh.Filename, contentType)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toRecipe(*rec), "image uploaded", nil)
}
