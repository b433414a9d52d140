// Test utility that floods the checkout topic with fake orders.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"tgstore/internal/entity"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

func main() {
	kafkaBrokers := flag.String(
		"brokers",
		"kafka:29092",
		"Kafka bootstrap brokers to connect to, as a comma separated list",
	)
	kafkaTopic := flag.String("topic", "checkout-events", "Kafka topic to write messages to")
	numMessages := flag.Int("count", 1, "Number of messages to send")
	interval := flag.Duration("interval", 1*time.Second, "Interval between sending messages")

	flag.Parse()

	writer := &kafka.Writer{
		Addr:     kafka.TCP(*kafkaBrokers),
		Topic:    *kafkaTopic,
		Balancer: &kafka.LeastBytes{},
	}
	defer writer.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf(
		"Starting checkout producer. Will send %d messages to topic '%s' at broker(s) '%s' every %v\n",
		*numMessages,
		*kafkaTopic,
		*kafkaBrokers,
		*interval,
	)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	messagesSent := 0

	sendMessage(ctx, writer)

	messagesSent++
	if messagesSent >= *numMessages {
		log.Printf("Sent all %d messages. Exiting.\n", *numMessages)
		return
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutting down producer...")
			return
		case <-ticker.C:
			sendMessage(ctx, writer)
			messagesSent++
			if messagesSent >= *numMessages {
				log.Printf("Sent all %d messages. Exiting.\n", *numMessages)
				return
			}
		}
	}
}

func sendMessage(ctx context.Context, writer *kafka.Writer) {
	order := generateFakeOrder()
	orderBytes, err := json.Marshal(order)
	if err != nil {
		log.Printf("Failed to marshal order: %v", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(order.ID),
		Value: orderBytes,
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = writer.WriteMessages(writeCtx, msg)
	if err != nil {
		log.Printf("Failed to write message to Kafka: %v", err)
		return
	}

	log.Printf("Successfully sent order ID: %s", order.ID)
}

func generateFakeOrder() *entity.Order {
	now := time.Now().UTC()

	order := &entity.Order{
		ID:     uuid.New().String(),
		Status: entity.StatusVerificationPending,
		Customer: &entity.Customer{
			Name:           gofakeit.Name(),
			TelegramUserID: int64(gofakeit.UintRange(100000, 999999999)),
		},
		Payment: &entity.Payment{
			Total: gofakeit.Price(500, 25000),
		},
		Delivery: &entity.Delivery{
			Method: gofakeit.RandomString([]string{"courier", "pickup", "post"}),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	// most checkouts happen inside the bot chat, some only carry the user id
	if gofakeit.Bool() {
		order.Customer.TelegramChatID = order.Customer.TelegramUserID
	}

	return order
}
