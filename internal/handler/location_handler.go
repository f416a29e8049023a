package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"PetAlert-App/internal/domain/repository"
	"PetAlert-App/internal/infrastructure/device"
	"PetAlert-App/internal/usecase"
)

// CurrentLocationRequest 端末からの位置情報の報告
// fallback に "ip" を指定すると端末の報告ではなくIPアドレスから推定する
type CurrentLocationRequest struct {
	device.LocationReport
	Fallback string `json:"fallback,omitempty"`
}

// DeviceProviderFactory リクエストごとに位置情報プロバイダを作る
type DeviceProviderFactory func(c *gin.Context, req *CurrentLocationRequest) repository.DeviceLocationProvider

// NewDeviceProviderFactory IP推定APIのURLを指定したファクトリを作る
func NewDeviceProviderFactory(ipGeolocationURL string) DeviceProviderFactory {
	return func(c *gin.Context, req *CurrentLocationRequest) repository.DeviceLocationProvider {
		if req.Fallback == "ip" {
			return device.NewIPGeolocationProvider(c.ClientIP(), device.WithBaseURL(ipGeolocationURL))
		}
		return device.NewReportedProvider(req.LocationReport)
	}
}

// LocationHandler 現在地・逆ジオコーディングAPIのハンドラー
type LocationHandler struct {
	locationUseCase usecase.LocationUseCase
	providers       DeviceProviderFactory
}

func NewLocationHandler(locationUseCase usecase.LocationUseCase, providers DeviceProviderFactory) *LocationHandler {
	return &LocationHandler{
		locationUseCase: locationUseCase,
		providers:       providers,
	}
}

// PostCurrentLocation POST /api/location/current
// 取得できなかった場合も200で location: null とメッセージを返す
func (h *LocationHandler) PostCurrentLocation(c *gin.Context) {
	var req CurrentLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", "Invalid JSON format: "+err.Error())
		return
	}

	response, err := h.locationUseCase.GetCurrentLocation(c.Request.Context(), h.providers(c, &req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetReverseGeocode GET /api/geocode/reverse?lat=&lng=
func (h *LocationHandler) GetReverseGeocode(c *gin.Context) {
	coord, err := parseCoordinateQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.locationUseCase.ReverseGeocode(c.Request.Context(), *coord)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
