package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/joao-fontenele/eventhub-probe/internal/config"
	"github.com/joao-fontenele/eventhub-probe/internal/messaging"
	"github.com/joao-fontenele/eventhub-probe/internal/probe"
	"github.com/joao-fontenele/eventhub-probe/internal/telemetry"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	verify := flag.Bool("verify", false, "consume the hub after sending and wait for the event to come back")
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline for the probe run")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "eventhub-probe", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(context.WithoutCancel(ctx)) }()

	endpoint := cfg.Endpoint()
	messagingCfg := messaging.Config{
		Brokers:  endpoint.Brokers,
		Topic:    cfg.EventHub,
		Username: endpoint.Username,
		Password: endpoint.Password,
		UseTLS:   endpoint.UseTLS,
	}

	producer := messaging.NewProducer(messagingCfg)
	defer func() { _ = producer.Close() }()

	var verifier probe.Verifier
	if *verify {
		// A fresh group per run so the verifier always reads its own message.
		groupID := "eventhub-probe-" + uuid.NewString()
		consumer := messaging.NewConsumer(messagingCfg, groupID,
			messaging.WithStartOffset(kafka.FirstOffset),
		)
		defer func() { _ = consumer.Close() }()
		verifier = consumer
	}

	p := probe.New(producer, verifier, cfg.EventHub, os.Stdout, logger)

	logger.Info("probing event hub", "hub", cfg.EventHub, "brokers", endpoint.Brokers, "verify", *verify)

	if err := p.Run(ctx); err != nil {
		logger.Error("probe failed", "error", err)
		os.Exit(1)
	}

	logger.Info("probe completed")
}
