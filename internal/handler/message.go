package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/planora/planora-api/internal/config"
	"github.com/planora/planora-api/internal/queue"
)

// MessageHandler exposes the authenticated SMS endpoint.
type MessageHandler struct {
	Cfg      config.Config
	Notifier queue.Notifier
}

func NewMessageHandler(cfg config.Config, notifier queue.Notifier) *MessageHandler {
	return &MessageHandler{Cfg: cfg, Notifier: notifier}
}

type sendMessageReq struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// Send handles POST /v1/send-message. The message is accepted once the
// broker has it; actual delivery is the consumer's problem.
func (h *MessageHandler) Send(c echo.Context) error {
	var req sendMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.To = strings.TrimSpace(req.To)
	if req.To == "" || strings.TrimSpace(req.Body) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to and body required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	err := h.Notifier.SendSMS(ctx, queue.SMSMessage{
		From: h.Cfg.SMSFrom,
		To:   req.To,
		Body: req.Body,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not send message"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "sms queued"})
}
