// Package notify 把站内通知写入 Kafka，由通知服务消费
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"forumcore/settings"
)

const defaultTopic = "forumcore.notifications"

type Notification struct {
	UserID     int64     `json:"user_id,string"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	CreateTime time.Time `json:"create_time"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier 以用户 ID 为 key，同一用户的通知落在同一分区保持顺序
type KafkaNotifier struct {
	writer messageWriter
	now    func() time.Time
}

func NewKafkaNotifier(cfg *settings.KafkaConfig) (*KafkaNotifier, error) {
	if cfg == nil || len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	topic := cfg.Topic
	if topic == "" {
		topic = defaultTopic
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	zap.L().Info("init kafka notifier success", zap.Strings("brokers", cfg.Brokers), zap.String("topic", topic))
	return &KafkaNotifier{writer: w, now: time.Now}, nil
}

func (n *KafkaNotifier) Notify(ctx context.Context, userID int64, typ, title, message string) error {
	value, err := json.Marshal(Notification{
		UserID:     userID,
		Type:       typ,
		Title:      title,
		Message:    message,
		CreateTime: n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal notification failed: %w", err)
	}
	msg := kafka.Message{Key: []byte(strconv.FormatInt(userID, 10)), Value: value}
	if err = n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write notification failed (user_id: %d): %w", userID, err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	if n == nil || n.writer == nil {
		return nil
	}
	return n.writer.Close()
}
