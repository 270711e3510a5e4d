// Package mq 通过 RabbitMQ 向声望系统投递事件
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"forumcore/settings"
)

const defaultExchange = "forumcore.reputation"

// ReputationEvent 投递到交换机的消息体
type ReputationEvent struct {
	UserID     int64          `json:"user_id,string"`
	EventType  string         `json:"event_type"`
	Points     int64          `json:"points"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// ReputationPublisher 事件以 reputation.<event_type> 为 routing key 发到 topic 交换机
type ReputationPublisher struct {
	mu       sync.Mutex
	ch       publisher
	conn     *amqp.Connection
	exchange string
	now      func() time.Time
}

func NewReputationPublisher(cfg *settings.RabbitMQConfig) (*ReputationPublisher, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("rabbitmq url not configured")
	}
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = defaultExchange
	}
	if err = ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s failed: %w", exchange, err)
	}
	zap.L().Info("init rabbitmq success", zap.String("exchange", exchange))
	return &ReputationPublisher{ch: ch, conn: conn, exchange: exchange, now: time.Now}, nil
}

func (p *ReputationPublisher) AwardEvent(ctx context.Context, userID int64, eventType string, points int64, metadata map[string]any) error {
	ev := ReputationEvent{
		UserID:     userID,
		EventType:  eventType,
		Points:     points,
		Metadata:   metadata,
		OccurredAt: p.now().UTC(),
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal reputation event failed: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    ev.OccurredAt,
		Body:         body,
	}

	// 同一 channel 上的发布需要串行
	p.mu.Lock()
	defer p.mu.Unlock()
	if err = p.ch.PublishWithContext(ctx, p.exchange, "reputation."+eventType, false, false, msg); err != nil {
		return fmt.Errorf("publish reputation event failed (user_id: %d): %w", userID, err)
	}
	return nil
}

func (p *ReputationPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
