package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"participant-service/internal/common/middleware"
	"participant-service/internal/common/validation"
	"participant-service/internal/features/participant/models/dto"
	"participant-service/internal/features/participant/service"
)

type ParticipantHandler struct {
	service      service.ParticipantService
	serviceToken string
}

func NewParticipantHandler(svc service.ParticipantService, serviceToken string) *ParticipantHandler {
	return &ParticipantHandler{
		service:      svc,
		serviceToken: serviceToken,
	}
}

func (h *ParticipantHandler) RegisterRoutes(router *gin.RouterGroup) {
	participants := router.Group("/participants")
	{
		participants.POST("/register", h.Register)
		participants.POST("/validate-captcha", h.ValidateCaptcha)
		participants.POST("/generate-captcha", h.GenerateCaptcha)
		participants.GET("/captcha-status/:user_id", h.CaptchaStatus)
		participants.GET("/winner-status/:user_id/:giveaway_id", h.WinnerStatus)
		participants.GET("/count/:giveaway_id", h.Count)
		participants.GET("/history/:user_id", h.History)
		participants.POST("/verify-subscription", h.VerifySubscription)
	}

	// Маршруты для других сервисов
	internalGroup := router.Group("/participants")
	internalGroup.Use(middleware.RequireServiceToken(h.serviceToken))
	{
		internalGroup.GET("/list/:giveaway_id", h.List)
		internalGroup.POST("/select-winners/:giveaway_id", h.SelectWinners)
		internalGroup.GET("/selection-logs/:giveaway_id", h.SelectionLogs)
		internalGroup.PUT("/update-delivery-status", h.UpdateDeliveryStatus)
		internalGroup.POST("/cleanup-expired-sessions", h.CleanupExpiredSessions)
	}
}

// @Summary Register participation
// @Description Register a user in a giveaway. First-time users receive a captcha challenge; returning users are committed directly after the subscription check.
// @Tags participants
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration request"
// @Success 200 {object} dto.RegisterResponse "Captcha challenge or confirmed participation"
// @Failure 400 {object} middleware.ErrorResponse "Validation error or giveaway not active"
// @Failure 404 {object} middleware.ErrorResponse "Giveaway not found"
// @Failure 409 {object} middleware.ErrorResponse "Already participated"
// @Router /participants/register [post]
func (h *ParticipantHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendError(c, validation.BindError(err))
		return
	}

	resp, err := h.service.RegisterParticipation(c.Request.Context(), &req)
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Validate captcha answer
// @Description Submit an answer for the active captcha session. A correct answer completes the captcha permanently and confirms the participation.
// @Tags participants
// @Accept json
// @Produce json
// @Param request body dto.ValidateCaptchaRequest true "Captcha answer"
// @Success 200 {object} dto.ValidateCaptchaResponse "Answer outcome"
// @Failure 404 {object} middleware.ErrorResponse "No active captcha session"
// @Failure 410 {object} middleware.ErrorResponse "Captcha expired, new question issued"
// @Router /participants/validate-captcha [post]
func (h *ParticipantHandler) ValidateCaptcha(c *gin.Context) {
	var req dto.ValidateCaptchaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendError(c, validation.BindError(err))
		return
	}

	resp, err := h.service.ValidateCaptcha(c.Request.Context(), &req)
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Generate captcha challenge
// @Description Issue a captcha challenge for a user who has not yet passed verification.
// @Tags participants
// @Accept json
// @Produce json
// @Param request body dto.GenerateCaptchaRequest true "Challenge request"
// @Success 200 {object} dto.GenerateCaptchaResponse "Issued challenge"
// @Failure 400 {object} middleware.ErrorResponse "Captcha already completed"
// @Router /participants/generate-captcha [post]
func (h *ParticipantHandler) GenerateCaptcha(c *gin.Context) {
	var req dto.GenerateCaptchaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendError(c, validation.BindError(err))
		return
	}

	resp, err := h.service.GenerateCaptcha(c.Request.Context(), &req)
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get captcha status
// @Description Get the user's global captcha latch and participation counters.
// @Tags participants
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} dto.CaptchaStatusResponse
// @Router /participants/captcha-status/{user_id} [get]
func (h *ParticipantHandler) CaptchaStatus(c *gin.Context) {
	userID, err := validation.ParseID(c.Param("user_id"), "user_id")
	if err != nil {
		middleware.SendError(c, err)
		return
	}

	resp, err := h.service.GetCaptchaStatus(c.Request.Context(), userID)
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get winner status
// @Description Report whether the user participated in and won the giveaway.
// @Tags participants
// @Produce json
// @Param user_id path int true "User ID"
// @Param giveaway_id path int true "Giveaway ID"
// @Success 200 {object} dto.WinnerStatusResponse
// @Router /participants/winner-status/{user_id}/{giveaway_id} [get]
func (h *ParticipantHandler) WinnerStatus(c *gin.Context) {
	userID, err := validation.ParseID(c.Param("user_id"), "user_id")
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	giveawayID, err := validation.ParseID(c.Param("giveaway_id"), "giveaway_id")
	if err != nil {
		middleware.SendError(c, err)
		return
	}

	resp, err := h.service.GetWinnerStatus(c.Request.Context(), userID, giveawayID)
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get participant count
// @Description Current number of participants in a giveaway. Cached briefly.
// @Tags participants
// @Produce json
// @Param giveaway_id path int true "Giveaway ID"
// @Success 200 {object} dto.CountResponse
// @Router /participants/count/{giveaway_id} [get]
func (h *ParticipantHandler) Count(c *gin.Context) {
	giveawayID, err := validation.ParseID(c.Param("giveaway_id"), "giveaway_id")
	if err != nil {
		middleware.SendError(c, err)
		return
	}

	resp, err := h.service.GetParticipantCount(c.Request.Context(), giveawayID)
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List participants
// @Description Paginated participant list with aggregate stats. Service-to-service only.
// @Tags participants
// @Produce json
// @Security ServiceToken
// @Param giveaway_id path int true "Giveaway ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} dto.ListResponse
// @Failure 401 {object} middleware.ErrorResponse "Missing or invalid service token"
// @Router /participants/list/{giveaway_id} [get]
func (h *ParticipantHandler) List(c *gin.Context) {
	giveawayID, err := validation.ParseID(c.Param("giveaway_id"), "giveaway_id")
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	resp, err := h.service.ListParticipants(c.Request.Context(), giveawayID, page, limit)
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Select winners
// @Description Run a winner selection over the eligible pool and persist the audit log. Service-to-service only.
// @Tags participants
// @Accept json
// @Produce json
// @Security ServiceToken
// @Param giveaway_id path int true "Giveaway ID"
// @Param request body dto.SelectWinnersRequest true "Selection parameters"
// @Success 200 {object} dto.SelectWinnersResponse
// @Failure 400 {object} middleware.ErrorResponse "No eligible participants"
// @Failure 401 {object} middleware.ErrorResponse "Missing or invalid service token"
// @Router /participants/select-winners/{giveaway_id} [post]
func (h *ParticipantHandler) SelectWinners(c *gin.Context) {
	giveawayID, err := validation.ParseID(c.Param("giveaway_id"), "giveaway_id")
	if err != nil {
		middleware.SendError(c, err)
		return
	}

	var req dto.SelectWinnersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendError(c, validation.BindError(err))
		return
	}

	resp, err := h.service.SelectWinners(c.Request.Context(), giveawayID, &req)
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get selection audit trail
// @Description Append-only log of winner-selection runs for a giveaway, newest first. Service-to-service only.
// @Tags participants
// @Produce json
// @Security ServiceToken
// @Param giveaway_id path int true "Giveaway ID"
// @Success 200 {object} dto.SelectionLogsResponse
// @Failure 401 {object} middleware.ErrorResponse "Missing or invalid service token"
// @Router /participants/selection-logs/{giveaway_id} [get]
func (h *ParticipantHandler) SelectionLogs(c *gin.Context) {
	giveawayID, err := validation.ParseID(c.Param("giveaway_id"), "giveaway_id")
	if err != nil {
		middleware.SendError(c, err)
		return
	}

	resp, err := h.service.GetSelectionLogs(c.Request.Context(), giveawayID)
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Update delivery status
// @Description Record message delivery outcomes for a batch of participants. Service-to-service only.
// @Tags participants
// @Accept json
// @Produce json
// @Security ServiceToken
// @Param request body dto.UpdateDeliveryRequest true "Delivery update"
// @Success 200 {object} dto.UpdateDeliveryResponse
// @Failure 401 {object} middleware.ErrorResponse "Missing or invalid service token"
// @Router /participants/update-delivery-status [put]
func (h *ParticipantHandler) UpdateDeliveryStatus(c *gin.Context) {
	var req dto.UpdateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendError(c, validation.BindError(err))
		return
	}

	resp, err := h.service.UpdateDeliveryStatus(c.Request.Context(), &req)
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get user history
// @Description The user's stats and recent participations enriched with giveaway metadata.
// @Tags participants
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} dto.HistoryResponse
// @Router /participants/history/{user_id} [get]
func (h *ParticipantHandler) History(c *gin.Context) {
	userID, err := validation.ParseID(c.Param("user_id"), "user_id")
	if err != nil {
		middleware.SendError(c, err)
		return
	}

	resp, err := h.service.GetUserHistory(c.Request.Context(), userID)
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Verify channel subscription
// @Description Check whether the user is subscribed to the channel bound to the account, without registering a participation.
// @Tags participants
// @Accept json
// @Produce json
// @Param request body dto.VerifySubscriptionRequest true "Verification request"
// @Success 200 {object} dto.VerifySubscriptionResponse
// @Failure 502 {object} middleware.ErrorResponse "Upstream service failure"
// @Router /participants/verify-subscription [post]
func (h *ParticipantHandler) VerifySubscription(c *gin.Context) {
	var req dto.VerifySubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendError(c, validation.BindError(err))
		return
	}

	resp, err := h.service.VerifySubscription(c.Request.Context(), &req)
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Cleanup expired captcha sessions
// @Description Delete expired captcha sessions immediately instead of waiting for the background sweep. Service-to-service only.
// @Tags participants
// @Produce json
// @Security ServiceToken
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} middleware.ErrorResponse "Missing or invalid service token"
// @Router /participants/cleanup-expired-sessions [post]
func (h *ParticipantHandler) CleanupExpiredSessions(c *gin.Context) {
	deleted, err := h.service.CleanupExpiredSessions(c.Request.Context())
	if err != nil {
		middleware.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted})
}
