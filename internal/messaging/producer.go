package messaging

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

var producerTracer = otel.Tracer("messaging/producer")

// Config describes how to reach the hub over the Kafka protocol. An empty
// Username means unauthenticated plaintext (local development); otherwise
// SASL PLAIN is used, the auth scheme managed event hubs expose on their
// Kafka endpoint.
type Config struct {
	Brokers  []string
	Topic    string
	Username string
	Password string
	UseTLS   bool
}

type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer builds a producer for cfg.Topic. No connection is made here;
// kafka-go dials lazily on the first write.
func NewProducer(cfg Config) *Producer {
	return &Producer{
		topic: cfg.Topic,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			RequiredAcks:           kafka.RequireAll,
			BatchTimeout:           100 * time.Millisecond,
			Transport:              newTransport(cfg),
		},
	}
}

func newTransport(cfg Config) *kafka.Transport {
	transport := &kafka.Transport{}
	if cfg.UseTLS {
		transport.TLS = &tls.Config{}
	}
	if cfg.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}
	return transport
}

// Publish serializes event to JSON and writes it as a single keyed message.
func (p *Producer) Publish(ctx context.Context, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	ctx, span := producerTracer.Start(ctx, "send "+p.topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("send"),
			semconv.MessagingOperationTypePublish,
			semconv.MessagingDestinationName(p.topic),
			semconv.MessagingKafkaMessageKey(key),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, newMessageCarrier(&msg))

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
