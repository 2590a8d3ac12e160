package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DRSN-tech/market-backend/internal/cfg"
	"github.com/DRSN-tech/market-backend/internal/usecase"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	headerEventID   = "event_id"
	headerEventType = "event_type"
)

var errMalformedEvent = errors.New("malformed outbox event")

type Producer struct {
	writer *kafka.Writer
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("no kafka brokers configured"))
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    10,
		BatchTimeout: 500 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warnf("Kafka producer error: %s", err.Error())
			}
		},
	}

	return &Producer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}, nil
}

// WriteRawMessage публикует событие outbox. Ключ сообщения: идентификатор агрегата,
// поэтому события одного продукта или расчёта попадают в одну партицию по порядку.
func (p *Producer) WriteRawMessage(ctx context.Context, req *usecase.WriteRawMessageReq) error {
	msg, err := newMessage(req, time.Now())
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %w", errMalformedEvent, err))
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *Producer) EnsureTopic(timeout time.Duration) error {
	conn, err := kafka.Dial(p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(p.cfg.Topic)
	if err == nil && len(partitions) > 0 {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.CreateTopics(kafka.TopicConfig{
			Topic:             p.cfg.Topic,
			NumPartitions:     p.cfg.Partitions,
			ReplicationFactor: p.cfg.ReplicationFactor,
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create topic %s: %w", p.cfg.Topic, err))
		}
		return nil
	case <-time.After(timeout):
		_ = conn.Close()
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("timeout: %v, topic: %s", timeout, p.cfg.Topic))
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// newMessage упаковывает JSON-нагрузку события в google.protobuf.Struct.
func newMessage(req *usecase.WriteRawMessageReq, now time.Time) (kafka.Message, error) {
	value, err := envelopeBytes(req, now)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(req.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: headerEventID, Value: []byte(req.EventID)},
			{Key: headerEventType, Value: []byte(req.EventType)},
		},
		Time: now,
	}, nil
}

func envelopeBytes(req *usecase.WriteRawMessageReq, now time.Time) ([]byte, error) {
	var payload map[string]any
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return nil, fmt.Errorf("event %s: payload is not a JSON object: %w", req.EventID, err)
	}

	envelope, err := structpb.NewStruct(map[string]any{
		"event_id":     req.EventID,
		"event_type":   string(req.EventType),
		"aggregate_id": req.Key,
		"occurred_at":  now.UTC().Format(time.RFC3339Nano),
		"payload":      payload,
	})
	if err != nil {
		return nil, err
	}

	return proto.Marshal(envelope)
}
