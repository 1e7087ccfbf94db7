package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-recipe-api/internal/interface/http"
	"github.com/oksasatya/go-recipe-api/internal/interface/middleware"
)

// IngredientModule wires /recipe/ingredients. Every route requires auth.
type IngredientModule struct {
	Handler *handlers.IngredientHandler
	Guard   Guard
}

func NewIngredientModule(h *handlers.IngredientHandler, g Guard) *IngredientModule {
	return &IngredientModule{Handler: h, Guard: g}
}

func (m *IngredientModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/recipe/ingredients")
	g.Use(m.Guard.Auth(), m.Guard.Limit(120, middleware.KeyByUserID(), nil))
	{
		g.GET("", m.Handler.List)
		g.GET("/search", m.Handler.Search)
		g.PATCH("/:id", m.Handler.Update)
		g.DELETE("/:id", m.Handler.Delete)
	}
}
