package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"

	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/usecase"
)

// AlertsHandler 周辺アラートAPIのハンドラー
type AlertsHandler struct {
	nearbyUseCase usecase.NearbyAlertsUseCase
}

func NewAlertsHandler(nearbyUseCase usecase.NearbyAlertsUseCase) *AlertsHandler {
	return &AlertsHandler{nearbyUseCase: nearbyUseCase}
}

// GetNearbyAlerts GET /api/alerts/nearby?lat=&lng=&radius=&type=&sort=distance&format=geojson
func (h *AlertsHandler) GetNearbyAlerts(c *gin.Context) {
	center, err := parseCoordinateQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	radius := model.DefaultNearbyRadiusKm
	if v := c.Query("radius"); v != "" {
		radius, err = strconv.ParseFloat(v, 64)
		if err != nil || radius <= 0 {
			badRequest(c, "invalid_parameter", "radius must be a positive number (km)")
			return
		}
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit <= 0 {
			badRequest(c, "invalid_parameter", "limit must be a positive integer")
			return
		}
	}

	req := &usecase.NearbyAlertsRequest{
		Query: model.NearbyQuery{
			Center:   *center,
			RadiusKm: radius,
			Type:     model.AlertType(c.Query("type")),
			Limit:    limit,
		},
		SortByDistance: c.Query("sort") == "distance",
	}

	response, err := h.nearbyUseCase.GetNearbyAlerts(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("format") == "geojson" {
		c.JSON(http.StatusOK, AlertsFeatureCollection(response.Alerts))
		return
	}
	c.JSON(http.StatusOK, response)
}

// AlertsFeatureCollection 地図表示用のGeoJSONに変換する。座標のないアラートは含めない
func AlertsFeatureCollection(alerts []model.AlertWithDistance) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, a := range alerts {
		coord := a.Coordinate()
		if coord == nil {
			continue
		}
		f := geojson.NewFeature(coord.Point())
		f.ID = a.ID
		f.Properties["type"] = string(a.Type)
		f.Properties["pet_name"] = a.PetName
		f.Properties["species"] = a.Species
		f.Properties["location"] = a.Location
		if a.DistanceKm != nil {
			f.Properties["distance_km"] = *a.DistanceKm
			f.Properties["distance_text"] = a.DistanceText
		}
		fc.Append(f)
	}
	return fc
}
