package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/joao-fontenele/eventhub-probe/internal/domain"
)

// Publisher sends one keyed event to the hub.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Verifier replays the hub so a sent event can be observed coming back.
type Verifier interface {
	Consume(ctx context.Context, handler func(ctx context.Context, payload []byte) error) error
}

// Probe performs a single send against the hub and reports the outcome to
// a human operator.
type Probe struct {
	publisher Publisher
	verifier  Verifier
	hub       string
	out       io.Writer
	logger    *slog.Logger
}

// New builds a Probe. verifier may be nil, in which case Run only sends.
func New(publisher Publisher, verifier Verifier, hub string, out io.Writer, logger *slog.Logger) *Probe {
	return &Probe{
		publisher: publisher,
		verifier:  verifier,
		hub:       hub,
		out:       out,
		logger:    logger,
	}
}

var errEventFound = errors.New("event found")

// Run publishes the fixed test order event and echoes the payload on
// success. Any failure is returned as-is; nothing is retried and the
// success banner is only printed after the write is acknowledged.
func (p *Probe) Run(ctx context.Context) error {
	event := domain.NewTestOrderEvent(time.Now().UTC())

	p.logger.Info("sending test event", "hub", p.hub, "order_id", event.OrderID)

	if err := p.publisher.Publish(ctx, event.OrderID, event); err != nil {
		return fmt.Errorf("publish test event: %w", err)
	}

	pretty, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		return fmt.Errorf("render payload: %w", err)
	}

	fmt.Fprintf(p.out, "successfully sent test event to %s\n%s\n", p.hub, pretty)

	if p.verifier == nil {
		return nil
	}

	p.logger.Info("waiting for the event to come back", "hub", p.hub, "order_id", event.OrderID)

	if err := p.awaitEcho(ctx, event.OrderID); err != nil {
		return fmt.Errorf("verify delivery: %w", err)
	}

	fmt.Fprintf(p.out, "verified: event %s observed on %s\n", event.OrderID, p.hub)
	return nil
}

// awaitEcho reads the hub until a message with the sent order id shows up.
// Messages that fail to decode or belong to other producers are skipped.
func (p *Probe) awaitEcho(ctx context.Context, orderID string) error {
	err := p.verifier.Consume(ctx, func(_ context.Context, payload []byte) error {
		var event domain.OrderEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil
		}
		if event.OrderID == orderID {
			return errEventFound
		}
		return nil
	})

	if errors.Is(err, errEventFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return errors.New("consumer stopped before the event was observed")
}
