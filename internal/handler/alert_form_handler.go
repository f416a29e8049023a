package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/service"
	"PetAlert-App/internal/usecase"
)

// AlertFormHandler アラート作成フォーム（下書き）APIのハンドラー
type AlertFormHandler struct {
	formUseCase usecase.AlertFormUseCase
	sessions    *service.AutocompleteSessions
	providers   DeviceProviderFactory
}

func NewAlertFormHandler(formUseCase usecase.AlertFormUseCase, sessions *service.AutocompleteSessions, providers DeviceProviderFactory) *AlertFormHandler {
	return &AlertFormHandler{
		formUseCase: formUseCase,
		sessions:    sessions,
		providers:   providers,
	}
}

// PostDraft POST /api/alerts/drafts
// ボディは任意。端末の位置情報報告があれば auto モードの判定に使う
func (h *AlertFormHandler) PostDraft(c *gin.Context) {
	var req CurrentLocationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid_request", "Invalid JSON format: "+err.Error())
			return
		}
	}

	fields, err := h.formUseCase.CreateDraft(c.Request.Context(), h.providers(c, &req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fields)
}

// GetDraft GET /api/alerts/drafts/:id
func (h *AlertFormHandler) GetDraft(c *gin.Context) {
	fields, err := h.formUseCase.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fields)
}

// SwitchModeRequest モード切り替えリクエスト。gps の場合は端末の位置情報報告を含める
type SwitchModeRequest struct {
	Mode string `json:"mode" binding:"required"`
	CurrentLocationRequest
}

// PutMode PUT /api/alerts/drafts/:id/mode
func (h *AlertFormHandler) PutMode(c *gin.Context) {
	var req SwitchModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", "Invalid JSON format: "+err.Error())
		return
	}
	mode, err := model.ParseLocationMode(req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}

	var fields *model.DraftFields
	if mode == model.ModeGPS {
		fields, err = h.formUseCase.UseGPS(c.Request.Context(), c.Param("id"), h.providers(c, &req.CurrentLocationRequest))
	} else {
		fields, err = h.formUseCase.SwitchMode(c.Request.Context(), c.Param("id"), mode)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fields)
}

// ManualRequest 手入力。suggestion を指定した場合は候補の選択として扱い、
// text は詳細取得に失敗したときの表示テキストになる
type ManualRequest struct {
	Text       string                 `json:"text"`
	SessionID  string                 `json:"session_id"`
	Suggestion *model.PlaceSuggestion `json:"suggestion"`
}

// PutManual PUT /api/alerts/drafts/:id/manual
func (h *AlertFormHandler) PutManual(c *gin.Context) {
	var req ManualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", "Invalid JSON format: "+err.Error())
		return
	}

	var (
		fields *model.DraftFields
		err    error
	)
	if req.Suggestion != nil {
		if req.SessionID == "" {
			badRequest(c, "missing_parameter", "session_id is required when selecting a suggestion")
			return
		}
		fields, err = h.formUseCase.SelectManualSuggestion(c.Request.Context(), c.Param("id"), h.sessions.Get(req.SessionID), *req.Suggestion, req.Text)
	} else {
		fields, err = h.formUseCase.SetManualText(c.Request.Context(), c.Param("id"), req.Text)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fields)
}

// PostalRequest 郵便番号入力
type PostalRequest struct {
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
}

// PutPostal PUT /api/alerts/drafts/:id/postal
func (h *AlertFormHandler) PutPostal(c *gin.Context) {
	var req PostalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", "Invalid JSON format: "+err.Error())
		return
	}

	fields, err := h.formUseCase.SetPostal(c.Request.Context(), c.Param("id"), req.PostalCode, req.CountryCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fields)
}

// PhotoRequest 写真アップロードURLの発行リクエスト
type PhotoRequest struct {
	Filename string `json:"filename" binding:"required"`
}

// PostPhoto POST /api/alerts/drafts/:id/photos
func (h *AlertFormHandler) PostPhoto(c *gin.Context) {
	var req PhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", "Invalid JSON format: "+err.Error())
		return
	}

	response, err := h.formUseCase.PresignPhotoUpload(c.Request.Context(), c.Param("id"), req.Filename)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

// PostSubmit POST /api/alerts/drafts/:id/submit
func (h *AlertFormHandler) PostSubmit(c *gin.Context) {
	var req model.AlertDetails
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", "Invalid JSON format: "+err.Error())
		return
	}

	submission, err := h.formUseCase.Submit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, submission)
}
