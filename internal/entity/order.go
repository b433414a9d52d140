package entity

import (
	"time"
)

type (
	Order struct {
		ID           string        `json:"id"                     validate:"required,max=64"`
		Status       string        `json:"status"                 validate:"required,max=50"`
		Customer     *Customer     `json:"customer"               validate:"required"`
		Payment      *Payment      `json:"payment"                validate:"required"`
		Delivery     *Delivery     `json:"delivery"               validate:"required"`
		Verification *Verification `json:"verification,omitempty"`
		Notes        string        `json:"notes,omitempty"        validate:"max=2000"`
		CreatedAt    time.Time     `json:"createdAt"`
		UpdatedAt    time.Time     `json:"updatedAt"`
	}

	Customer struct {
		Name           string `json:"name"           validate:"required,max=200"`
		TelegramUserID int64  `json:"telegramUserId" validate:"gte=0"`
		TelegramChatID int64  `json:"telegramChatId" validate:"gte=0"`
	}

	Payment struct {
		Total float64 `json:"total" validate:"gte=0"`
	}

	Delivery struct {
		Method         string `json:"method"                   validate:"required,max=50"`
		TrackingNumber string `json:"trackingNumber,omitempty" validate:"max=100"`
	}

	Verification struct {
		VideoURL string `json:"videoUrl"`
		Status   string `json:"status"`
	}
)

// ChatTarget resolves where customer notifications go: the chat id when known,
// otherwise the user id. Zero means nowhere to deliver.
func (o *Order) ChatTarget() int64 {
	if o.Customer == nil {
		return 0
	}
	if o.Customer.TelegramChatID != 0 {
		return o.Customer.TelegramChatID
	}
	return o.Customer.TelegramUserID
}

type (
	// OrderFilter narrows admin listings. Empty fields match everything.
	OrderFilter struct {
		Status         string
		DeliveryMethod string
		Limit          uint64
	}

	// StatusUpdate carries an admin status change. Empty TrackingNumber and
	// Notes mean "leave the stored value alone", not "clear it".
	StatusUpdate struct {
		Status         string
		TrackingNumber string
		Notes          string
	}

	StatusBucket struct {
		Count int64   `json:"count"`
		Total float64 `json:"total"`
	}

	StatusGroup struct {
		Status string
		Count  int64
		Total  float64
	}

	OrderStats struct {
		ByStatus     map[string]StatusBucket `json:"byStatus"`
		TotalOrders  int64                   `json:"totalOrders"`
		TotalRevenue float64                 `json:"totalRevenue"`
	}
)
