package router

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Registry mounts modules under one prefix with shared middleware.
type Registry struct {
	Engine  *gin.Engine
	API     *gin.RouterGroup
	prefix  string
	shared  []gin.HandlerFunc
	modules []Module
}

func NewRegistry(engine *gin.Engine, prefix string) *Registry {
	return &Registry{Engine: engine, API: engine.Group(prefix), prefix: prefix}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) { r.shared = append(r.shared, mw...) }

func (r *Registry) Add(mod Module) { r.modules = append(r.modules, mod) }

// RegisterAll attaches the shared middleware before any module route so
// every route runs it.
func (r *Registry) RegisterAll() {
	r.API.Use(r.shared...)
	for _, m := range r.modules {
		m.Register(r.API)
	}
}

// Routes lists "METHOD path" for everything mounted under the prefix.
func (r *Registry) Routes() []string {
	var out []string
	for _, ri := range r.Engine.Routes() {
		if strings.HasPrefix(ri.Path, r.prefix) {
			out = append(out, ri.Method+" "+ri.Path)
		}
	}
	return out
}
