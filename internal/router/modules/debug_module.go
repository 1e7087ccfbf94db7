package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-recipe-api/internal/interface/middleware"
)

type DebugModule struct {
	Guard Guard
}

func NewDebugModule(g Guard) *DebugModule { return &DebugModule{Guard: g} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar metrics, rate-limited per IP; private networks are not limited
	rl := m.Guard.Limit(120, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
