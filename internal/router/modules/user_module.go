package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-recipe-api/internal/interface/http"
	"github.com/oksasatya/go-recipe-api/internal/interface/middleware"
)

// UserModule wires account routes under /users.
// Public: POST /users, POST /users/token, POST /users/refresh
// Protected: POST /users/logout, GET /users/me, PATCH /users/me
type UserModule struct {
	Handler *handlers.UserHandler
	Guard   Guard
}

func NewUserModule(h *handlers.UserHandler, g Guard) *UserModule {
	return &UserModule{Handler: h, Guard: g}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")

	users.POST("", m.Guard.Limit(10, middleware.KeyByIPAndPath(), nil), m.Handler.Register)
	users.POST("/token", m.Guard.Limit(10, middleware.KeyByIPAndPath(), nil), m.Handler.Token)
	users.POST("/refresh", m.Guard.Limit(60, middleware.KeyByIPAndPath(), nil), m.Handler.Refresh)

	auth := users.Group("")
	auth.Use(m.Guard.Auth(), m.Guard.Limit(120, middleware.KeyByUserID(), nil))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
		auth.PATCH("/me", m.Handler.UpdateMe)
	}
}
