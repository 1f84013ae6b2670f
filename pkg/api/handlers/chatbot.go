package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/referralhub/pkg/api/errors"
	"github.com/jordanlanch/referralhub/pkg/chatbot"
	"github.com/jordanlanch/referralhub/pkg/logger"
	"github.com/jordanlanch/referralhub/pkg/models"
)

// ChatbotHandler answers the referral page's chat widget
type ChatbotHandler struct {
	responder *chatbot.Responder
	logger    logger.Logger
	validator *validator.Validate
}

// NewChatbotHandler creates a new chatbot handler
func NewChatbotHandler(responder *chatbot.Responder, log logger.Logger) *ChatbotHandler {
	return &ChatbotHandler{responder: responder, logger: log, validator: newValidator()}
}

// Welcome godoc
// @Summary Opening chatbot message
// @Tags Chatbot
// @Produce json
// @Success 200 {object} models.ChatMessage
// @Router /chatbot/welcome [get]
func (h *ChatbotHandler) Welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, h.responder.Welcome())
}

// Respond godoc
// @Summary Reply to a visitor message
// @Tags Chatbot
// @Accept json
// @Produce json
// @Param request body models.ChatRequest true "Message and transcript"
// @Success 200 {object} models.ChatMessage
// @Failure 400 {object} models.ErrorResponse
// @Router /chatbot/respond [post]
func (h *ChatbotHandler) Respond(c echo.Context) error {
	var req models.ChatRequest
	if err := c.Bind(&req); err != nil {
		return errors.InvalidBody(c)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	msg, err := h.responder.Respond(req.History, req.Message, req.ReferralCode)
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, msg)
}
