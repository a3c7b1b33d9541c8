package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"starboard/internal/config"
	leaderboardService "starboard/internal/modules/leaderboard/service"
	"starboard/pkg/apperror"
)

// New builds the read-only HTTP surface: a health probe and the leaderboard
// report. All starboard mutations happen through the Slack event listener.
func New(cfg *config.Config, leaderboard leaderboardService.LeaderboardService) *gin.Engine {
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	setupCORS(router, cfg)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.GET("/leaderboard", func(c *gin.Context) {
		report, err := leaderboard.GetReport(c.Request.Context())
		if err != nil {
			c.JSON(apperror.MapErrorToStatus(err), gin.H{"error": apperror.ErrInternal.Error()})
			return
		}
		c.JSON(http.StatusOK, report)
	})

	return router
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	var origins []string
	if cfg.AllowedOrigins != "" {
		origins = strings.Split(cfg.AllowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
}
