package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/service"
)

// PlacesHandler 場所のオートコンプリートAPIのハンドラー
// クライアントは入力ごとに autocomplete を呼び、superseded の応答は無視する
type PlacesHandler struct {
	sessions *service.AutocompleteSessions
}

func NewPlacesHandler(sessions *service.AutocompleteSessions) *PlacesHandler {
	return &PlacesHandler{sessions: sessions}
}

// PostSession POST /api/places/sessions
func (h *PlacesHandler) PostSession(c *gin.Context) {
	id, _ := h.sessions.Create()
	c.JSON(http.StatusCreated, gin.H{"session_id": id})
}

// GetAutocomplete GET /api/places/autocomplete?session=&q=&lat=&lng=
func (h *PlacesHandler) GetAutocomplete(c *gin.Context) {
	sessionID := c.Query("session")
	if sessionID == "" {
		badRequest(c, "missing_parameter", "session parameter is required")
		return
	}

	coordinator := h.sessions.Get(sessionID)
	result, err := coordinator.Search(c.Request.Context(), c.Query("q"), parseOptionalCoordinateQuery(c))
	if err != nil {
		if c.Request.Context().Err() != nil {
			// クライアントが切断済み
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SelectPlaceRequest 候補選択リクエスト
type SelectPlaceRequest struct {
	SessionID  string                `json:"session_id" binding:"required"`
	Suggestion model.PlaceSuggestion `json:"suggestion"`
}

// PostSelect POST /api/places/select
func (h *PlacesHandler) PostSelect(c *gin.Context) {
	var req SelectPlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", "Invalid JSON format: "+err.Error())
		return
	}

	result, err := h.sessions.Get(req.SessionID).SelectSuggestion(c.Request.Context(), req.Suggestion)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
