package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"PetAlert-App/internal/handler/middleware"
)

// Handlers ルーティング対象のハンドラー一式
type Handlers struct {
	Location  *LocationHandler
	Places    *PlacesHandler
	Alerts    *AlertsHandler
	AlertForm *AlertFormHandler
}

// NewRouter ginのルーターを構築する
func NewRouter(h Handlers, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to PetAlert-App!")
	})

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "PetAlert-App"})
	})

	secured := api.Group("")
	secured.Use(middleware.Auth(jwtSecret))
	{
		secured.POST("/location/current", h.Location.PostCurrentLocation)
		secured.GET("/geocode/reverse", h.Location.GetReverseGeocode)

		secured.POST("/places/sessions", h.Places.PostSession)
		secured.GET("/places/autocomplete", h.Places.GetAutocomplete)
		secured.POST("/places/select", h.Places.PostSelect)

		secured.GET("/alerts/nearby", h.Alerts.GetNearbyAlerts)

		drafts := secured.Group("/alerts/drafts")
		drafts.POST("", h.AlertForm.PostDraft)
		drafts.GET("/:id", h.AlertForm.GetDraft)
		drafts.PUT("/:id/mode", h.AlertForm.PutMode)
		drafts.PUT("/:id/manual", h.AlertForm.PutManual)
		drafts.PUT("/:id/postal", h.AlertForm.PutPostal)
		drafts.POST("/:id/photos", h.AlertForm.PostPhoto)
		drafts.POST("/:id/submit", h.AlertForm.PostSubmit)
	}

	return r
}
