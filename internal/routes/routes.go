package routes

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tankograd/internal/handlers"
	"tankograd/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	db *sql.DB,
	loginHandler *handlers.LoginHandler,
	adminHandler *handlers.AdminHandler,
	jwtKey []byte,
	registry *prometheus.Registry,
) *gin.Engine {

	// ---- public
	r.POST("/auth/telegram/redeem", loginHandler.Redeem)

	r.GET("/healthz", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	// ---- protected (JWT)
	auth := r.Group("/auth", middleware.AuthMiddleware(jwtKey))
	{
		auth.GET("/me", loginHandler.Me)
	}

	admin := r.Group("/admin", middleware.AuthMiddleware(jwtKey))
	{
		admin.GET("/codes/stats", adminHandler.CodeStats)
	}

	return r
}
