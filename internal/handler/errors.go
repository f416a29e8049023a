package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"PetAlert-App/internal/domain/model"
)

// respondError ドメインのエラーをHTTPステータスに対応付けて返す
func respondError(c *gin.Context, err error) {
	var validationErr *model.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"field":   validationErr.Field,
			"message": validationErr.Message,
		})
	case errors.Is(err, model.ErrLocationRequired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "location_required",
			"message": model.MessageLocationRequired,
		})
	case errors.Is(err, model.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
	case errors.Is(err, model.ErrDraftForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": err.Error(),
		})
	case errors.Is(err, model.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "invalid_transition",
			"message": err.Error(),
		})
	case errors.Is(err, model.ErrMissingAPIKey):
		log.Printf("❌ 設定エラー: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "configuration_error",
			"message": err.Error(),
		})
	default:
		log.Printf("❌ 内部エラー: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	}
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   code,
		"message": message,
	})
}

// parseCoordinateQuery lat/lng クエリパラメータを読み取る
func parseCoordinateQuery(c *gin.Context) (*model.Coordinate, error) {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr == "" || lngStr == "" {
		return nil, &model.ValidationError{Field: "lat/lng", Message: "lat と lng は必須です"}
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, &model.ValidationError{Field: "lat", Message: "Invalid lat value"}
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, &model.ValidationError{Field: "lng", Message: "Invalid lng value"}
	}
	return model.NewCoordinate(lat, lng)
}

// parseOptionalCoordinateQuery lat/lng が両方ある場合のみ座標を返す
func parseOptionalCoordinateQuery(c *gin.Context) *model.Coordinate {
	if c.Query("lat") == "" || c.Query("lng") == "" {
		return nil
	}
	coord, err := parseCoordinateQuery(c)
	if err != nil {
		return nil
	}
	return coord
}
