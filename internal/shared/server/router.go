package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nirnoy12/covercraft-ai-tools/internal/auth"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/documents"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/generation"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/services/health"
	sharedauth "github.com/Nirnoy12/covercraft-ai-tools/internal/shared/auth"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/config"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/metrics"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/server/middleware"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/server/respond"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/users"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/web"
)

// RouterDeps contains the handlers mounted by NewRouter. Nil handlers are skipped.
type RouterDeps struct {
	Config            config.Config
	Verifier          sharedauth.Verifier
	Health            *health.Service
	DocumentHandler   *documents.Handler
	GenerationHandler *generation.Handler
	UserHandler       *users.Handler
	GoogleAuth        *auth.GoogleService
	Web               *web.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.IsDevLike() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Authenticate(deps.Verifier),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, gin.H{"ok": true})
			return
		}
		st := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !st.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, st)
	})
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}

	private := api.Group("", middleware.RequireAuth())
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(private)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(private)
	}
	if deps.GenerationHandler != nil {
		deps.GenerationHandler.RegisterRoutes(private)
	}

	if deps.Web != nil {
		deps.Web.RegisterRoutes(r)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", "", nil)
	})

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
