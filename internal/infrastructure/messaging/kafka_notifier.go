package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jhoicas/omnicanal-api/internal/application/ports"
	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/pkg/logger"
)

var (
	_ ports.Notifier = (*KafkaNotifier)(nil)
	_ ports.Notifier = (*LogNotifier)(nil)
)

// MessageWriter lo que el notificador usa de *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter crea el writer hacia el tópico de eventos de pedido.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}

// KafkaNotifier publica eventos de pedido; la llave es el id del pedido para conservar el orden por pedido.
type KafkaNotifier struct {
	writer MessageWriter
	log    *logger.Logger
}

func NewKafkaNotifier(writer MessageWriter, log *logger.Logger) *KafkaNotifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &KafkaNotifier{writer: writer, log: log}
}

// Publish serializa el evento y propaga el contexto de traza en los headers.
func (n *KafkaNotifier) Publish(ctx context.Context, event entity.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	headers := make([]kafka.Header, 0, len(carrier)+1)
	headers = append(headers, kafka.Header{Key: "event_type", Value: []byte(event.Type)})
	for k, v := range carrier {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	msg := kafka.Message{
		Key:     []byte(event.OrderID),
		Value:   payload,
		Headers: headers,
		Time:    event.OccurredAt,
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publicar evento %s: %w", event.Type, err)
	}
	n.log.Debug().Str("order_id", event.OrderID).Str("event", event.Type).Msg("evento de pedido publicado")
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// LogNotifier registra los eventos cuando no hay broker configurado.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Publish(_ context.Context, event entity.OrderEvent) error {
	n.log.Info().
		Str("event", event.Type).
		Str("order_id", event.OrderID).
		Str("order_number", event.OrderNumber).
		Str("to_status", string(event.ToStatus)).
		Msg("evento de pedido")
	return nil
}
