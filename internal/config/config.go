package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// DefaultEventHub is the hub the checkout pipeline publishes order events to.
const DefaultEventHub = "otel-events"

// saslUsername is the fixed username the Kafka endpoint of Event Hubs
// expects when authenticating with a connection string.
const saslUsername = "$ConnectionString"

const kafkaPort = "9093"

type Config struct {
	// ConnectionString is an Event Hubs-style connection string
	// (Endpoint=sb://...;SharedAccessKeyName=...;SharedAccessKey=...).
	// Takes precedence over Brokers when both are set.
	ConnectionString string `envconfig:"EVENTHUB_CONNECTION_STRING"`

	// Brokers are plaintext Kafka brokers, for local development.
	Brokers []string `envconfig:"KAFKA_BROKERS"`

	// EventHub is the target hub/topic. Resolution order: this variable,
	// then the connection string's EntityPath, then DefaultEventHub.
	EventHub string `envconfig:"EVENTHUB_NAME"`

	endpoint Endpoint
}

// Endpoint is the resolved broker target, including SASL credentials when
// the hub is reached through a connection string.
type Endpoint struct {
	Brokers  []string
	Username string
	Password string
	UseTLS   bool
}

// Load reads configuration from the environment and validates it. All
// connection-string errors surface here, before any producer is built.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Endpoint returns the broker endpoint resolved by Load.
func (c *Config) Endpoint() Endpoint {
	return c.endpoint
}

func (c *Config) resolve() error {
	switch {
	case c.ConnectionString != "":
		host, entityPath, err := parseConnectionString(c.ConnectionString)
		if err != nil {
			return fmt.Errorf("parse EVENTHUB_CONNECTION_STRING: %w", err)
		}
		c.endpoint = Endpoint{
			Brokers:  []string{net.JoinHostPort(host, kafkaPort)},
			Username: saslUsername,
			Password: c.ConnectionString,
			UseTLS:   true,
		}
		if c.EventHub == "" {
			c.EventHub = entityPath
		}
	case len(c.Brokers) > 0:
		c.endpoint = Endpoint{Brokers: c.Brokers}
	default:
		return errors.New("either EVENTHUB_CONNECTION_STRING or KAFKA_BROKERS must be set")
	}

	if c.EventHub == "" {
		c.EventHub = DefaultEventHub
	}
	return nil
}

// parseConnectionString extracts the namespace host and optional EntityPath
// from a semicolon-separated Endpoint=...;key=value connection string.
func parseConnectionString(s string) (host, entityPath string, err error) {
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return "", "", fmt.Errorf("malformed segment %q", pair)
		}

		switch key {
		case "Endpoint":
			u, err := url.Parse(value)
			if err != nil {
				return "", "", fmt.Errorf("parse endpoint %q: %w", value, err)
			}
			if u.Hostname() == "" {
				return "", "", fmt.Errorf("endpoint %q has no host", value)
			}
			host = u.Hostname()
		case "EntityPath":
			entityPath = value
		}
	}

	if host == "" {
		return "", "", errors.New("missing Endpoint segment")
	}
	return host, entityPath, nil
}
