package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// LargeOperationMessage сообщение о крупной операции
type LargeOperationMessage struct {
	ChatID    int64     `json:"chat_id"`
	Operation string    `json:"operation"` // income, expense, balance_set
	Category  string    `json:"category,omitempty"`
	Amount    string    `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// Producer отправляет уведомления о крупных операциях.
// Если брокеры не заданы, producer создается выключенным и все
// вызовы Notify становятся no-op.
type Producer struct {
	writer    *kafka.Writer
	threshold decimal.Decimal
	logger    *logrus.Logger
}

// NewProducer создает новый Kafka producer
func NewProducer(brokers []string, topic string, threshold decimal.Decimal, logger *logrus.Logger) *Producer {
	if len(brokers) == 0 {
		logger.Info("Kafka brokers are not configured, large operation notifications disabled")
		return &Producer{threshold: threshold, logger: logger}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Compression:  kafka.Snappy,
		BatchTimeout: 10 * time.Millisecond,
	}

	logger.Infof("Kafka producer initialized for topic: %s", topic)

	return &Producer{
		writer:    writer,
		threshold: threshold,
		logger:    logger,
	}
}

// Notify отправляет уведомление, если модуль суммы не ниже порога.
// Отправка асинхронная; ошибки логируются и до пользователя не доходят.
func (p *Producer) Notify(ctx context.Context, chatID int64, operation, category string, amount decimal.Decimal) error {
	if p.writer == nil {
		return nil
	}

	if amount.Abs().LessThan(p.threshold) {
		p.logger.Debugf("Operation amount %s is below threshold %s, skipping notification",
			amount.StringFixed(2), p.threshold.StringFixed(2))
		return nil
	}

	message := LargeOperationMessage{
		ChatID:    chatID,
		Operation: operation,
		Category:  category,
		Amount:    amount.StringFixed(2),
		Timestamp: time.Now(),
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", chatID)),
		Value: payload,
	})

	if err != nil {
		p.logger.Errorf("Failed to send large operation notification: %v", err)
		return fmt.Errorf("failed to write message: %w", err)
	}

	p.logger.Infof("Large operation notification sent: chat=%d, %s %s", chatID, operation, message.Amount)
	return nil
}

// Close закрывает producer
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	p.logger.Info("Closing Kafka producer")
	return p.writer.Close()
}
