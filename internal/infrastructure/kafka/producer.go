package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/jimlawless/whereami"
	"github.com/mastimed/mobilegestion/internal/cfg"
	"github.com/mastimed/mobilegestion/internal/usecase"
	"github.com/mastimed/mobilegestion/pkg/e"
	"github.com/mastimed/mobilegestion/pkg/logger"
	"github.com/segmentio/kafka-go"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	headerEventID     = "event_id"
	headerEventType   = "event_type"
	headerContentType = "content_type"

	payloadContentType = "application/x-protobuf; messageType=google.protobuf.Struct"
)

// Producer публикует события склада в Kafka. Ключ сообщения — идентификатор товара,
// поэтому события одного товара попадают в одну партицию по порядку.
type Producer struct {
	writer *kafka.Writer
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    10,
		BatchTimeout: 100 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}
}

// WriteMessage синхронно отправляет одно событие.
func (p *Producer) WriteMessage(ctx context.Context, req *usecase.WriteMessageReq) error {
	msg, err := EncodeEvent(req.Event)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// EnsureTopic создаёт топик, если его ещё нет.
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
		p.logger.Infof("kafka topic %s created", p.cfg.Topic)
		return nil
	case <-time.After(timeout):
		_ = conn.Close()
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("timeout: %v, topic: %s", timeout, p.cfg.Topic))
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// EncodeEvent сериализует событие в google.protobuf.Struct.
func EncodeEvent(event *usecase.LedgerEvent) (kafka.Message, error) {
	const op = "kafka.EncodeEvent"

	payload, err := structpb.NewStruct(map[string]any{
		"event_id":    event.ID,
		"event_type":  string(event.Type),
		"product_id":  event.ProductID,
		"occurred_at": event.OccurredAt.UTC().Format(time.RFC3339Nano),
		"data":        event.Data,
	})
	if err != nil {
		return kafka.Message{}, e.Wrap(op, err)
	}

	value, err := proto.MarshalOptions{Deterministic: true}.Marshal(payload)
	if err != nil {
		return kafka.Message{}, e.Wrap(op, err)
	}

	return kafka.Message{
		Key:   []byte(event.ProductID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: headerEventID, Value: []byte(event.ID)},
			{Key: headerEventType, Value: []byte(event.Type)},
			{Key: headerContentType, Value: []byte(payloadContentType)},
		},
	}, nil
}

// DecodeEvent — обратное преобразование для потребителей и тестов.
func DecodeEvent(msg kafka.Message) (map[string]any, error) {
	var payload structpb.Struct
	if err := proto.Unmarshal(msg.Value, &payload); err != nil {
		return nil, e.Wrap("kafka.DecodeEvent", err)
	}

	return payload.AsMap(), nil
}
