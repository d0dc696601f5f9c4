package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/chatwire/wabridge/internal/auth"
	"github.com/chatwire/wabridge/internal/channel"
)

// SendHandler exposes operator-initiated outbound sends through the channel
// registry. The route sits behind the JWT middleware.
type SendHandler struct {
	logger   *slog.Logger
	registry *channel.Registry
}

func NewSendHandler(log *slog.Logger, registry *channel.Registry) *SendHandler {
	return &SendHandler{
		logger:   log.With(slog.String("handler", "send")),
		registry: registry,
	}
}

func (h *SendHandler) Register(e *echo.Echo) {
	e.POST("/messages/send", h.Send)
}

type SendMessageRequest struct {
	Channel  string `json:"channel,omitempty"`
	To       string `json:"to"`
	Text     string `json:"text"`
	MediaURL string `json:"media_url,omitempty"`
}

type SendMessageResponse struct {
	ProviderMessageID string `json:"provider_message_id"`
}

func (h *SendHandler) Send(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.To) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "to is required")
	}

	channelType := channel.ChannelType(strings.TrimSpace(req.Channel))
	if channelType == "" {
		types := h.registry.Types()
		if len(types) != 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "channel is required")
		}
		channelType = types[0]
	}
	sender, ok := h.registry.GetSender(channelType)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported channel type: "+channelType.String())
	}

	log := h.logger
	if subject, err := auth.SubjectFromContext(c); err == nil {
		log = log.With(slog.String("operator", subject))
	}

	sid, err := sender.Send(c.Request().Context(), channel.OutboundMessage{
		Target: req.To,
		Message: channel.Message{
			Text:      req.Text,
			ChannelID: req.To,
			MediaURL:  req.MediaURL,
		},
	})
	if err != nil {
		log.Error("send failed", slog.String("channel", channelType.String()), slog.Any("error", err))
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	log.Info("message sent",
		slog.String("channel", channelType.String()),
		slog.String("provider_message_id", sid))
	return c.JSON(http.StatusOK, SendMessageResponse{ProviderMessageID: sid})
}
