package twilio

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/chatwire/wabridge/internal/channel"
	"github.com/chatwire/wabridge/internal/config"
)

type inboundDispatcher interface {
	Enqueue(msg channel.Message) error
}

const webhookMaxBodyBytes int64 = 1 << 20 // 1 MiB

// emptyTwiML is the acknowledgment the carrier expects on its webhook
// callback. It is returned as soon as routing is handed off; conversation
// processing never holds the HTTP response.
const emptyTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// WebhookHandler receives Twilio WhatsApp webhook callbacks: verify the
// request signature when enabled, decode the form into the internal message
// shape, enqueue for routing, and acknowledge with empty TwiML.
type WebhookHandler struct {
	logger     *slog.Logger
	cfg        config.TwilioConfig
	dispatcher inboundDispatcher
}

// NewWebhookHandler creates the public webhook handler for the carrier.
func NewWebhookHandler(log *slog.Logger, cfg config.TwilioConfig, dispatcher inboundDispatcher) *WebhookHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WebhookHandler{
		logger:     log.With(slog.String("handler", "twilio_webhook")),
		cfg:        cfg,
		dispatcher: dispatcher,
	}
}

// Endpoint returns the webhook path this handler serves.
func (h *WebhookHandler) Endpoint() string {
	endpoint := strings.TrimSpace(h.cfg.Endpoint)
	if endpoint == "" {
		endpoint = config.DefaultWebhookEndpoint
	}
	return endpoint
}

// Register registers the webhook route.
func (h *WebhookHandler) Register(e *echo.Echo) {
	e.POST(h.Endpoint(), h.Handle)
}

// Handle processes one inbound webhook request. Exactly one response is
// written on every path: 400 on verification failure, 200 TwiML otherwise.
func (h *WebhookHandler) Handle(c echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, webhookMaxBodyBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "read body: "+err.Error())
	}
	if int64(len(payload)) > webhookMaxBodyBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "payload too large")
	}

	// Malformed bodies decode to empty values rather than failing; downstream
	// logic tolerates empty text.
	form, parseErr := url.ParseQuery(string(payload))
	if parseErr != nil {
		form = url.Values{}
	}

	if h.cfg.ValidateRequests {
		signature := c.Request().Header.Get("X-Twilio-Signature")
		canonicalURL := CanonicalURL(c.Request(), h.cfg.ValidationURL)
		if !VerifySignature(h.cfg.AuthToken, signature, canonicalURL, form) {
			h.logger.Warn("invalid signature on incoming request",
				slog.String("url", canonicalURL),
				slog.String("remote_ip", c.RealIP()))
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid signature."})
		}
	}

	msg := decodeInbound(form)
	if h.dispatcher == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "webhook dispatcher not configured")
	}
	if err := h.dispatcher.Enqueue(msg); err != nil {
		// The carrier still gets its ack; retrying is its job, not a 5xx storm's.
		h.logger.Error("enqueue inbound failed",
			slog.String("provider_message_id", msg.ProviderMessageID),
			slog.Any("error", err))
	} else {
		h.logger.Info("message hook received",
			slog.String("provider_message_id", msg.ProviderMessageID),
			slog.String("channel_id", msg.ChannelID))
	}

	return c.Blob(http.StatusOK, "text/xml", []byte(emptyTwiML))
}
