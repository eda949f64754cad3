package handlers

import (
	"net/http"

	"patient-records/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SetupRouter builds the gin engine with middleware and all routes.
func SetupRouter(h *PatientHandler, log zerolog.Logger, corsOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))
	router.Use(corsMiddleware(corsOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.GET("/", h.Home)
	router.GET("/about", h.About)
	router.GET("/health", h.Health)
	router.GET("/stats", h.Stats)

	router.GET("/view", h.ViewPatients)
	router.GET("/patient/:patient_id", h.GetPatient)
	router.GET("/sort", h.SortPatients)
	router.POST("/create", h.CreatePatient)
	router.PUT("/edit/:patient_id", h.UpdatePatient)
	router.DELETE("/delete/:patient_id", h.DeletePatient)

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			break
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
	}
	if !cfg.AllowAllOrigins && len(cfg.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
	}
	return cors.New(cfg)
}
