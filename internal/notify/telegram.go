package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"tgstore/internal/config"
	"tgstore/internal/entity"
	"tgstore/pkg/logger"
	"tgstore/pkg/metric"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

// Notification kinds, used as metric labels.
const (
	KindOrderConfirmation     = "order_confirmation"
	KindStatusUpdate          = "status_update"
	KindVerificationReminder  = "verification_reminder"
	KindAdminNewOrder         = "admin_new_order"
	KindAdminVerificationSent = "admin_verification_submitted"
)

// Client delivers messages through the Telegram Bot API. Every send reports
// success as a plain boolean: delivery is best-effort and must never fail the
// operation that triggered it, so errors stop here, in logs and metrics.
//
// The underlying bot is constructed lazily because tgbotapi validates the
// token against the API on construction; without a token the client stays
// off the network entirely.
type Client struct {
	cfg     *config.Telegram
	log     logger.Logger
	metrics metric.Notification

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

func NewClient(cfg *config.Telegram, log logger.Logger, metrics metric.Notification) *Client {
	return &Client{
		cfg:     cfg,
		log:     log,
		metrics: metrics,
	}
}

func (c *Client) SendOrderConfirmation(
	ctx context.Context,
	chatID int64,
	orderID string,
	total float64,
) bool {
	text, markup := buildOrderConfirmation(c.cfg.WebAppBaseURL, orderID, total)
	return c.sendMessage(ctx, KindOrderConfirmation, chatID, text, markup)
}

func (c *Client) SendOrderStatusUpdate(
	ctx context.Context,
	chatID int64,
	orderID, status, trackingNumber string,
) bool {
	text, markup := buildStatusUpdate(c.cfg.WebAppBaseURL, orderID, status, trackingNumber)
	return c.sendMessage(ctx, KindStatusUpdate, chatID, text, markup)
}

func (c *Client) SendVerificationReminder(
	ctx context.Context,
	chatID int64,
	orderID string,
) bool {
	text, markup := buildVerificationReminder(c.cfg.WebAppBaseURL, orderID)
	return c.sendMessage(ctx, KindVerificationReminder, chatID, text, markup)
}

func (c *Client) NotifyAdminNewOrder(ctx context.Context, order *entity.Order) bool {
	if c.cfg.AdminChatID == 0 {
		c.log.Warnw("admin chat id not set, skipping admin notification",
			"kind", KindAdminNewOrder,
			"order_id", order.ID,
		)
		c.metrics.Failed(KindAdminNewOrder, "missing_admin_chat")
		return false
	}

	text := buildAdminNewOrder(c.cfg.WebAppBaseURL, order)
	return c.sendMessage(ctx, KindAdminNewOrder, c.cfg.AdminChatID, text, nil)
}

func (c *Client) NotifyAdminVerificationSubmitted(
	ctx context.Context,
	orderID, customerName string,
) bool {
	if c.cfg.AdminChatID == 0 {
		c.log.Warnw("admin chat id not set, skipping admin notification",
			"kind", KindAdminVerificationSent,
			"order_id", orderID,
		)
		c.metrics.Failed(KindAdminVerificationSent, "missing_admin_chat")
		return false
	}

	text := buildAdminVerificationSubmitted(c.cfg.WebAppBaseURL, orderID, customerName)
	return c.sendMessage(ctx, KindAdminVerificationSent, c.cfg.AdminChatID, text, nil)
}

func (c *Client) sendMessage(
	ctx context.Context,
	kind string,
	chatID int64,
	text string,
	markup *tgbotapi.InlineKeyboardMarkup,
) bool {
	if c.cfg.Token == "" {
		c.log.Warnw("telegram bot token not set, skipping message sending",
			"kind", kind,
			"chat_id", chatID,
		)
		c.metrics.Failed(kind, "missing_token")
		return false
	}

	if err := ctx.Err(); err != nil {
		c.log.Warnw("context finished before telegram send",
			"kind", kind,
			"chat_id", chatID,
			"error", err,
		)
		c.metrics.Failed(kind, "canceled")
		return false
	}

	bot, err := c.getBot()
	if err != nil {
		c.log.Errorw("failed to initialize telegram bot",
			"kind", kind,
			"chat_id", chatID,
			"error", err,
		)
		c.metrics.Failed(kind, classifyReason(err))
		return false
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup != nil {
		msg.ReplyMarkup = *markup
	}

	if _, err = bot.Send(msg); err != nil {
		c.log.Errorw("failed to send telegram message",
			"kind", kind,
			"chat_id", chatID,
			"error", err,
		)
		c.metrics.Failed(kind, classifyReason(err))
		return false
	}

	c.log.Infow("telegram message sent",
		"kind", kind,
		"chat_id", chatID,
	)
	c.metrics.Sent(kind)
	return true
}

// getBot builds the bot on first use and caches it. A failed construction is
// retried on the next send rather than cached.
func (c *Client) getBot() (*tgbotapi.BotAPI, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bot != nil {
		return c.bot, nil
	}

	endpoint := strings.TrimRight(c.cfg.APIBaseURL, "/") + "/bot%s/%s"
	bot, err := tgbotapi.NewBotAPIWithClient(
		c.cfg.Token,
		endpoint,
		&http.Client{Timeout: c.cfg.SendTimeout},
	)
	if err != nil {
		return nil, fmt.Errorf("notify.Client.getBot: %w", err)
	}

	c.bot = bot
	return bot, nil
}

// classifyReason separates API rejections from transport failures for the
// failure metric.
func classifyReason(err error) string {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return "api_error"
	}
	return "network"
}
