package kafka

import (
	"fmt"

	"tgstore/internal/config"
	"tgstore/pkg/logger"

	"github.com/segmentio/kafka-go"
)

func NewReader(cfg config.Kafka, log logger.Logger) (*kafka.Reader, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
		Logger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Infow("kafka reader info",
				"topic", cfg.Topic,
				"group_id", cfg.GroupID,
				"message", fmt.Sprintf(msg, args...),
			)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Errorw("kafka reader error",
				"topic", cfg.Topic,
				"group_id", cfg.GroupID,
				"error", fmt.Sprintf(msg, args...),
			)
		}),
	})

	if err := checkConnection(cfg.Brokers, log); err != nil {
		return nil, err
	}

	return reader, nil
}

func checkConnection(brokers []string, log logger.Logger) error {
	const op = "kafka.checkConnection"

	dialer := &kafka.Dialer{}
	for _, broker := range brokers {
		conn, err := dialer.Dial("tcp", broker)
		if err != nil {
			return fmt.Errorf("%s: connect to %s: %w", op, broker, err)
		}

		if err = conn.Close(); err != nil {
			log.Warnw("failed to close connection",
				"broker", broker,
				"error", err,
			)
		}
	}

	return nil
}
