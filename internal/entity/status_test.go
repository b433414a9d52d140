package entity_test

import (
	"testing"

	"tgstore/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestStatusLabel(t *testing.T) {
	testCases := []struct {
		desc     string
		status   string
		expected string
	}{
		{
			desc:     "KnownStatus",
			status:   entity.StatusShipped,
			expected: "🚚 Order has been shipped",
		},
		{
			desc:     "VerificationPending",
			status:   entity.StatusVerificationPending,
			expected: "🎥 Awaiting video verification",
		},
		{
			desc:     "UnknownStatusRenderedLiterally",
			status:   "custom_state",
			expected: "Status: custom_state",
		},
		{
			desc:     "EmptyStatus",
			status:   "",
			expected: "Status: ",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, entity.StatusLabel(tc.status))
		})
	}
}

func TestOrder_ChatTarget(t *testing.T) {
	testCases := []struct {
		desc     string
		customer *entity.Customer
		expected int64
	}{
		{
			desc:     "PrefersChatID",
			customer: &entity.Customer{TelegramUserID: 10, TelegramChatID: 20},
			expected: 20,
		},
		{
			desc:     "FallsBackToUserID",
			customer: &entity.Customer{TelegramUserID: 10},
			expected: 10,
		},
		{
			desc:     "NoTarget",
			customer: &entity.Customer{},
			expected: 0,
		},
		{
			desc:     "NilCustomer",
			customer: nil,
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			order := &entity.Order{Customer: tc.customer}
			assert.Equal(t, tc.expected, order.ChatTarget())
		})
	}
}
