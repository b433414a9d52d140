package httpt_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tgstore/internal/entity"
	"tgstore/internal/service"
	httpt "tgstore/internal/transport/http"
	"tgstore/pkg/cache"
	"tgstore/pkg/metric"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	orders  map[string]*entity.Order
	listErr error
}

func newMemoryRepo(orders ...*entity.Order) *memoryRepo {
	repo := &memoryRepo{orders: make(map[string]*entity.Order)}
	for _, order := range orders {
		repo.orders[order.ID] = order
	}
	return repo
}

func (r *memoryRepo) Create(_ context.Context, order *entity.Order) error {
	if _, ok := r.orders[order.ID]; ok {
		return entity.ErrDuplicateOrder
	}
	r.orders[order.ID] = order
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, entity.ErrOrderNotFound
	}
	return order, nil
}

func (r *memoryRepo) List(_ context.Context, filter entity.OrderFilter) ([]*entity.Order, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}

	result := make([]*entity.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.DeliveryMethod != "" && order.Delivery.Method != filter.DeliveryMethod {
			continue
		}
		result = append(result, order)
	}
	return result, nil
}

func (r *memoryRepo) UpdateVerification(_ context.Context, id, videoURL string) error {
	order, ok := r.orders[id]
	if !ok {
		return entity.ErrOrderNotFound
	}
	order.Verification = &entity.Verification{
		VideoURL: videoURL,
		Status:   entity.VerificationStatusPending,
	}
	order.Status = entity.StatusVerificationPending
	return nil
}

func (r *memoryRepo) UpdateStatus(_ context.Context, id string, update entity.StatusUpdate) error {
	order, ok := r.orders[id]
	if !ok {
		return entity.ErrOrderNotFound
	}
	order.Status = update.Status
	if update.TrackingNumber != "" {
		order.Delivery.TrackingNumber = update.TrackingNumber
	}
	if update.Notes != "" {
		order.Notes = update.Notes
	}
	return nil
}

func (r *memoryRepo) StatsByStatus(context.Context) ([]entity.StatusGroup, error) {
	groups := make(map[string]*entity.StatusGroup)
	for _, order := range r.orders {
		group, ok := groups[order.Status]
		if !ok {
			group = &entity.StatusGroup{Status: order.Status}
			groups[order.Status] = group
		}
		group.Count++
		group.Total += order.Payment.Total
	}

	result := make([]entity.StatusGroup, 0, len(groups))
	for _, group := range groups {
		result = append(result, *group)
	}
	return result, nil
}

type silentNotifier struct{}

func (silentNotifier) SendOrderConfirmation(context.Context, int64, string, float64) bool {
	return true
}

func (silentNotifier) SendOrderStatusUpdate(context.Context, int64, string, string, string) bool {
	return true
}

func (silentNotifier) SendVerificationReminder(context.Context, int64, string) bool { return true }

func (silentNotifier) NotifyAdminNewOrder(context.Context, *entity.Order) bool { return true }

func (silentNotifier) NotifyAdminVerificationSubmitted(context.Context, string, string) bool {
	return true
}

func testOrder(id string, userID int64) *entity.Order {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &entity.Order{
		ID:     id,
		Status: entity.StatusVerificationPending,
		Customer: &entity.Customer{
			Name:           "Jamie",
			TelegramUserID: userID,
			TelegramChatID: userID,
		},
		Payment:   &entity.Payment{Total: 150},
		Delivery:  &entity.Delivery{Method: "courier"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newTestHandler(t *testing.T, repo *memoryRepo) *httpt.OrderHandler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	metrics := metric.NewFactory()

	orderCache, err := cache.NewLRUCache[string, *entity.Order](16, "orders", metrics.Cache())
	require.NoError(t, err)

	svc := service.NewOrderService(repo, silentNotifier{}, nopLogger{}, orderCache, time.Minute)
	auth := httpt.NewWebAppAuth(_testBotToken, nopLogger{})

	return httpt.NewOrderHandler(svc, auth, nopLogger{}, metrics.HTTP())
}

func doRequest(h *httpt.OrderHandler, method, target, initData, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if initData != "" {
		req.Header.Set(httpt.InitDataHeader, initData)
	}

	rec := httptest.NewRecorder()
	h.Engine().ServeHTTP(rec, req)
	return rec
}

func TestSubmitVerification(t *testing.T) {
	const ownerID = 424242

	testCases := []struct {
		desc       string
		initData   string
		body       string
		wantStatus int
	}{
		{
			desc:       "OwnerSubmits",
			initData:   validInitData(ownerID),
			body:       `{"videoUrl":"https://cdn.example.com/v.mp4"}`,
			wantStatus: http.StatusOK,
		},
		{
			desc:       "StrangerRejected",
			initData:   validInitData(ownerID + 1),
			body:       `{"videoUrl":"https://cdn.example.com/v.mp4"}`,
			wantStatus: http.StatusForbidden,
		},
		{
			desc:       "MissingInitData",
			initData:   "",
			body:       `{"videoUrl":"https://cdn.example.com/v.mp4"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			desc:       "MissingVideoURL",
			initData:   validInitData(ownerID),
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			repo := newMemoryRepo(testOrder("order-1", ownerID))
			h := newTestHandler(t, repo)

			rec := doRequest(h, http.MethodPost, "/api/orders/order-1/verify", tc.initData, tc.body)

			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())

			if tc.wantStatus == http.StatusOK {
				order := repo.orders["order-1"]
				require.NotNil(t, order.Verification)
				assert.Equal(t, "https://cdn.example.com/v.mp4", order.Verification.VideoURL)
				assert.Equal(t, entity.VerificationStatusPending, order.Verification.Status)
			}
		})
	}
}

func TestSubmitVerification_UnknownOrder(t *testing.T) {
	h := newTestHandler(t, newMemoryRepo())

	rec := doRequest(h, http.MethodPost, "/api/orders/missing/verify",
		validInitData(1), `{"videoUrl":"https://cdn.example.com/v.mp4"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrders(t *testing.T) {
	shipped := testOrder("order-1", 1)
	shipped.Status = entity.StatusShipped
	pending := testOrder("order-2", 2)

	h := newTestHandler(t, newMemoryRepo(shipped, pending))

	t.Run("All", func(t *testing.T) {
		rec := doRequest(h, http.MethodGet, "/api/admin/orders", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var orders []entity.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
		assert.Len(t, orders, 2)
	})

	t.Run("StatusFilter", func(t *testing.T) {
		rec := doRequest(h, http.MethodGet, "/api/admin/orders?status_filter=shipped", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var orders []entity.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
		require.Len(t, orders, 1)
		assert.Equal(t, "order-1", orders[0].ID)
	})

	t.Run("InvalidLimit", func(t *testing.T) {
		rec := doRequest(h, http.MethodGet, "/api/admin/orders?limit=abc", "", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetOrder(t *testing.T) {
	h := newTestHandler(t, newMemoryRepo(testOrder("order-1", 1)))

	t.Run("Found", func(t *testing.T) {
		rec := doRequest(h, http.MethodGet, "/api/admin/orders/order-1", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var order entity.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
		assert.Equal(t, "order-1", order.ID)
		assert.Equal(t, "Jamie", order.Customer.Name)
	})

	t.Run("NotFound", func(t *testing.T) {
		rec := doRequest(h, http.MethodGet, "/api/admin/orders/missing", "", "")
		require.Equal(t, http.StatusNotFound, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Order not found", resp["error"])
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Run("FullUpdate", func(t *testing.T) {
		repo := newMemoryRepo(testOrder("order-1", 1))
		h := newTestHandler(t, repo)

		rec := doRequest(h, http.MethodPatch, "/api/admin/orders/order-1/status", "",
			`{"status":"shipped","trackingNumber":"TRK-9","notes":"fragile"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		order := repo.orders["order-1"]
		assert.Equal(t, entity.StatusShipped, order.Status)
		assert.Equal(t, "TRK-9", order.Delivery.TrackingNumber)
		assert.Equal(t, "fragile", order.Notes)
	})

	t.Run("PartialUpdateKeepsStoredFields", func(t *testing.T) {
		order := testOrder("order-1", 1)
		order.Delivery.TrackingNumber = "TRK-OLD"
		order.Notes = "keep me"
		repo := newMemoryRepo(order)
		h := newTestHandler(t, repo)

		rec := doRequest(h, http.MethodPatch, "/api/admin/orders/order-1/status", "",
			`{"status":"delivered"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, entity.StatusDelivered, order.Status)
		assert.Equal(t, "TRK-OLD", order.Delivery.TrackingNumber)
		assert.Equal(t, "keep me", order.Notes)
	})

	t.Run("MissingStatus", func(t *testing.T) {
		h := newTestHandler(t, newMemoryRepo(testOrder("order-1", 1)))

		rec := doRequest(h, http.MethodPatch, "/api/admin/orders/order-1/status", "",
			`{"trackingNumber":"TRK-9"}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UnknownOrder", func(t *testing.T) {
		h := newTestHandler(t, newMemoryRepo())

		rec := doRequest(h, http.MethodPatch, "/api/admin/orders/missing/status", "",
			`{"status":"shipped"}`)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestOrderStats(t *testing.T) {
	first := testOrder("order-1", 1)
	first.Status = entity.StatusShipped
	second := testOrder("order-2", 2)
	second.Status = entity.StatusShipped
	second.Payment.Total = 50
	third := testOrder("order-3", 3)

	h := newTestHandler(t, newMemoryRepo(first, second, third))

	rec := doRequest(h, http.MethodGet, "/api/admin/orders/stats/summary", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats entity.OrderStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))

	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.InDelta(t, 350, stats.TotalRevenue, 0.001)
	assert.Equal(t, int64(2), stats.ByStatus[entity.StatusShipped].Count)
	assert.InDelta(t, 200, stats.ByStatus[entity.StatusShipped].Total, 0.001)
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(t, newMemoryRepo())

	rec := doRequest(h, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}
