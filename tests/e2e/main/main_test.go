package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"tgstore/internal/entity"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type E2ETestSuite struct {
	suite.Suite

	kafkaWriter *kafka.Writer
	httpClient  *http.Client
	appHost     string
	appPort     string
}

func (s *E2ETestSuite) SetupSuite() {
	kafkaBrokers := getEnvOrDefault("KAFKA_BROKERS", "localhost:9092")
	kafkaTopic := getEnvOrDefault("KAFKA_TOPIC", "checkout-events")
	s.appHost = getEnvOrDefault("APP_HOST", "localhost")
	s.appPort = getEnvOrDefault("APP_PORT", "8080")

	s.kafkaWriter = &kafka.Writer{
		Addr:     kafka.TCP(kafkaBrokers),
		Topic:    kafkaTopic,
		Balancer: &kafka.LeastBytes{},
	}
	s.httpClient = &http.Client{
		Timeout: 10 * time.Second,
	}

	s.waitForApp()
}

func (s *E2ETestSuite) waitForApp() {
	const maxRetries = 30
	const retryDelay = 2 * time.Second
	hostport := net.JoinHostPort(s.appHost, s.appPort)
	healthURL := fmt.Sprintf("http://%s/health", hostport)

	for i := range maxRetries {
		req, err := http.NewRequestWithContext(context.Background(), "GET", healthURL, nil)
		if err != nil {
			s.T().Logf("Failed to create health check request: %v", err)
			time.Sleep(retryDelay)
			continue
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			s.T().Logf("Health check failed (attempt %d/%d): %v", i+1, maxRetries, err)
			time.Sleep(retryDelay)
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			s.T().Log("App is healthy")
			return
		}
		s.T().Logf("App health check status %d (attempt %d/%d)", resp.StatusCode, i+1, maxRetries)
		time.Sleep(retryDelay)
	}
	s.T().Fatalf("App did not become healthy after %d attempts", maxRetries)
}

func (s *E2ETestSuite) TearDownSuite() {
	if s.kafkaWriter != nil {
		s.kafkaWriter.Close()
	}
}

func (s *E2ETestSuite) TestCheckoutToAdminFlow() {
	order := generateFakeOrder()
	orderBytes, err := json.Marshal(order)
	require.NoError(s.T(), err)

	err = s.kafkaWriter.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(order.ID),
			Value: orderBytes,
		},
	)
	require.NoError(s.T(), err, "Failed to write message to Kafka")

	retrieved := s.waitForOrder(order.ID)
	require.Equal(s.T(), order.ID, retrieved.ID)
	require.Equal(s.T(), order.Customer.Name, retrieved.Customer.Name)
	require.InDelta(s.T(), order.Payment.Total, retrieved.Payment.Total, 0.001)

	s.updateStatus(order.ID, entity.StatusShipped, "TRK-E2E")

	retrieved = s.getOrder(order.ID)
	require.Equal(s.T(), entity.StatusShipped, retrieved.Status)
	require.Equal(s.T(), "TRK-E2E", retrieved.Delivery.TrackingNumber)
}

func (s *E2ETestSuite) waitForOrder(orderID string) *entity.Order {
	const maxRetries = 15
	const retryDelay = 2 * time.Second

	for range maxRetries {
		resp, err := s.httpClient.Get(s.adminOrderURL(orderID))
		if err == nil {
			func() {
				defer resp.Body.Close()
				io.Copy(io.Discard, resp.Body)
			}()
			if resp.StatusCode == http.StatusOK {
				return s.getOrder(orderID)
			}
		}
		time.Sleep(retryDelay)
	}

	s.T().Fatalf("Order %s never appeared in the admin API", orderID)
	return nil
}

func (s *E2ETestSuite) getOrder(orderID string) *entity.Order {
	resp, err := s.httpClient.Get(s.adminOrderURL(orderID))
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var order entity.Order
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&order))
	return &order
}

func (s *E2ETestSuite) updateStatus(orderID, status, trackingNumber string) {
	payload, err := json.Marshal(map[string]string{
		"status":         status,
		"trackingNumber": trackingNumber,
	})
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		context.Background(),
		http.MethodPatch,
		s.adminOrderURL(orderID)+"/status",
		bytes.NewReader(payload),
	)
	require.NoError(s.T(), err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
}

func (s *E2ETestSuite) adminOrderURL(orderID string) string {
	hostport := net.JoinHostPort(s.appHost, s.appPort)
	return fmt.Sprintf("http://%s/api/admin/orders/%s", hostport, orderID)
}

func TestE2E(t *testing.T) {
	t.Parallel()
	if os.Getenv("E2E_TEST") == "" {
		t.Skip("Skipping e2e test; set E2E_TEST to run.")
	}
	suite.Run(t, new(E2ETestSuite))
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func generateFakeOrder() *entity.Order {
	now := time.Now().UTC().Truncate(time.Second)
	return &entity.Order{
		ID:     uuid.New().String(),
		Status: entity.StatusVerificationPending,
		Customer: &entity.Customer{
			Name:           gofakeit.Name(),
			TelegramUserID: int64(gofakeit.UintRange(1000, 999999)),
		},
		Payment:   &entity.Payment{Total: gofakeit.Price(100, 10000)},
		Delivery:  &entity.Delivery{Method: "courier"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
