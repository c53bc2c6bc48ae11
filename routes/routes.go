package routes

import (
	"net/http"
	"time"

	"grotto/handlers"
	"grotto/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterVoiceRoutes registers the telephony endpoints: the incoming-call
// webhook and the media-stream websocket.
func RegisterVoiceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/voice", middleware.TwilioSignatureMiddleware(), hb.VoiceWebhookHandler)
	r.GET("/ws/:callSid", hb.MediaStreamHandler)
}

// RegisterRecordRoutes registers call record retrieval endpoints.
func RegisterRecordRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/records")
	{
		api.GET("/id/:id", hb.GetCallRecordHandler)
		api.GET("/caller/:number", hb.GetCallerRecordsHandler)
		api.DELETE("/id/:id", hb.DeleteCallRecordHandler)
	}
}

// RegisterInventoryRoutes registers the car catalogue endpoints.
func RegisterInventoryRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/cars")
	{
		api.GET("", hb.ListCarsHandler)
		api.POST("/search", hb.SearchCarsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "grotto"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterVoiceRoutes(r, hb)
	RegisterRecordRoutes(r, hb)
	RegisterInventoryRoutes(r, hb)
	RegisterHealthRoute(r)
}
