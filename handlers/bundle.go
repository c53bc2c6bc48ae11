package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups the route handlers for registration.
type HandlerBundle struct {
	// Telephony endpoints.
	VoiceWebhookHandler gin.HandlerFunc
	MediaStreamHandler  gin.HandlerFunc

	// Call record endpoints.
	GetCallRecordHandler    gin.HandlerFunc
	GetCallerRecordsHandler gin.HandlerFunc
	DeleteCallRecordHandler gin.HandlerFunc

	// Inventory endpoints.
	ListCarsHandler   gin.HandlerFunc
	SearchCarsHandler gin.HandlerFunc
}
