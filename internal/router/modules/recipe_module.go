package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-recipe-api/internal/interface/http"
	"github.com/oksasatya/go-recipe-api/internal/interface/middleware"
)

// RecipeModule wires /recipe/recipes. Every route requires auth.
type RecipeModule struct {
	Handler *handlers.RecipeHandler
	Guard   Guard
}

func NewRecipeModule(h *handlers.RecipeHandler, g Guard) *RecipeModule {
	return &RecipeModule{Handler: h, Guard: g}
}

func (m *RecipeModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/recipe/recipes")
	g.Use(m.Guard.Auth(), m.Guard.Limit(120, middleware.KeyByUserID(), nil))
	{
		g.GET("", m.Handler.List)
		g.POST("", m.Handler.Create)
		g.GET("/:id", m.Handler.Get)
		g.PATCH("/:id", m.Handler.Update)
		g.DELETE("/:id", m.Handler.Delete)
		g.POST("/:id/upload-image", m.Guard.Limit(20, middleware.KeyByUserID(), nil), m.Handler.UploadImage)
	}
}
