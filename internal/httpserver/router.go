package httpserver

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")

	customers := api.Group("/customers")
	customers.GET("", listCustomers(deps.CustomerSvc))
	customers.GET("/:id", getCustomer(deps.CustomerSvc))
	customers.GET("/:id/meetings", customerMeetings(deps.CustomerSvc))
	customers.POST("", createCustomer(deps.CustomerSvc))
	customers.PUT("/:id", updateCustomer(deps.CustomerSvc))
	customers.DELETE("/:id", deleteCustomer(deps.CustomerSvc))

	meetings := api.Group("/meetings")
	meetings.GET("", listMeetings(deps.MeetingSvc))
	meetings.GET("/:id", getMeeting(deps.MeetingSvc))
	meetings.POST("", createMeeting(deps.MeetingSvc))
	meetings.PUT("/:id", updateMeeting(deps.MeetingSvc))
	meetings.DELETE("/:id", deleteMeeting(deps.MeetingSvc))

	upload := api.Group("/bulk-upload")
	upload.POST("/customers", uploadCustomers(deps.Importer, deps.MaxUploadBytes))
	upload.POST("/meetings", uploadMeetings(deps.Importer, deps.MaxUploadBytes))

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
