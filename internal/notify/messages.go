package notify

import (
	"fmt"
	"strings"

	"tgstore/internal/entity"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

func buildOrderConfirmation(
	webAppBase, orderID string,
	total float64,
) (string, *tgbotapi.InlineKeyboardMarkup) {
	text := fmt.Sprintf(`🎉 <b>Thank you for your order!</b>

📦 <b>Order number:</b> %s
💰 <b>Total:</b> %.2f

Your order has been received and is being processed.
We will keep you posted on every status change.`, orderID, total)

	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonWebApp(
				"📦 Check status",
				tgbotapi.WebAppInfo{URL: fmt.Sprintf("%s/orders/%s", webAppBase, orderID)},
			),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonWebApp(
				"🛍️ Back to shop",
				tgbotapi.WebAppInfo{URL: webAppBase},
			),
		),
	)

	return text, &markup
}

func buildStatusUpdate(
	webAppBase, orderID, status, trackingNumber string,
) (string, *tgbotapi.InlineKeyboardMarkup) {
	var b strings.Builder
	fmt.Fprintf(&b, `<b>Order update</b> 📬

📦 <b>Order number:</b> %s
📍 <b>Status:</b> %s`, orderID, entity.StatusLabel(status))

	if trackingNumber != "" {
		fmt.Fprintf(&b, "\n🔗 <b>Tracking number:</b> %s", trackingNumber)
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonWebApp(
				"📦 Check details",
				tgbotapi.WebAppInfo{URL: fmt.Sprintf("%s/orders/%s", webAppBase, orderID)},
			),
		),
	)

	return b.String(), &markup
}

func buildVerificationReminder(webAppBase, orderID string) (string, *tgbotapi.InlineKeyboardMarkup) {
	text := fmt.Sprintf(`⚠️ <b>Verification reminder</b>

Your order <b>%s</b> requires video verification.

To complete the order, record a short video holding your ID document.

📹 <b>Requirements:</b>
• A readable document (ID card or driving licence)
• Good lighting
• 30 seconds at most`, orderID)

	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonWebApp(
				"🎥 Submit verification",
				tgbotapi.WebAppInfo{URL: fmt.Sprintf("%s/orders/%s/verify", webAppBase, orderID)},
			),
		),
	)

	return text, &markup
}

func buildAdminNewOrder(webAppBase string, order *entity.Order) string {
	return fmt.Sprintf(`🔔 <b>NEW ORDER!</b>

📦 <b>Order:</b> %s
👤 <b>Customer:</b> %s
💰 <b>Total:</b> %.2f
🚚 <b>Delivery:</b> %s

<a href="%s/admin/orders/%s">Open admin panel</a>`,
		order.ID,
		order.Customer.Name,
		order.Payment.Total,
		strings.ToUpper(order.Delivery.Method),
		webAppBase,
		order.ID,
	)
}

func buildAdminVerificationSubmitted(webAppBase, orderID, customerName string) string {
	return fmt.Sprintf(`🎥 <b>NEW VERIFICATION!</b>

📦 <b>Order:</b> %s
👤 <b>Customer:</b> %s

The verification is awaiting review.
<a href="%s/admin/verifications">Review verifications</a>`,
		orderID,
		customerName,
		webAppBase,
	)
}
