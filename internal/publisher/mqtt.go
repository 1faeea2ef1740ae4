package publisher

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-json-experiment/json"
	"github.com/google/uuid"

	"github.com/jgoulah/ratecompare/internal/config"
	"github.com/jgoulah/ratecompare/internal/log"
	"github.com/jgoulah/ratecompare/pkg/models"
)

const publishTimeout = 10 * time.Second

// Publisher sends monthly summaries to an MQTT broker
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
}

// New connects to the broker described by cfg
func New(cfg config.MQTTConfig, topicPrefix string) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("MQTT publishing is not enabled in config")
	}
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	// Configure MQTT client options
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	opts.SetClientID("ratecompare-" + uuid.NewString()[:8])
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	// Create and connect client
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	return &Publisher{
		client:      client,
		topicPrefix: topicPrefix,
	}, nil
}

// Topic returns the topic a month's summary is published to
func Topic(prefix string, month time.Month) string {
	return fmt.Sprintf("%s/%02d", prefix, int(month))
}

// Payload encodes a summary as the JSON message body
func Payload(s models.MonthlySummary) ([]byte, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	return body, nil
}

// Publish sends each summary as a retained message, stopping at the first failure
func (p *Publisher) Publish(ctx context.Context, summaries []models.MonthlySummary) error {
	for _, s := range summaries {
		body, err := Payload(s)
		if err != nil {
			return err
		}

		topic := Topic(p.topicPrefix, s.Month)
		token := p.client.Publish(topic, 1, true, body)
		if !token.WaitTimeout(publishTimeout) {
			return fmt.Errorf("publishing %s: timed out after %s", topic, publishTimeout)
		}
		if err := token.Error(); err != nil {
			return fmt.Errorf("publishing %s: %w", topic, err)
		}
		log.Ctx(ctx).InfoContext(ctx, "published summary", "topic", topic, "best", s.Best)

		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
