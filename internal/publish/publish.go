// Package publish broadcasts each tick's reading as JSON over MQTT.
// The publisher is optional: the dashboard only constructs one when a
// broker is configured, and publish failures never block the tick path.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/soren/icewatch/internal/reading"
)

// Telemetry is the wire form of one reading.
type Telemetry struct {
	Timestamp   string  `json:"timestamp"`
	TempC       float64 `json:"temp_c"`
	TempF       float64 `json:"temp_f"`
	TempK       float64 `json:"temp_k"`
	PressureHPa float64 `json:"pressure_hpa"`
}

// Options configure the broker connection.
type Options struct {
	Broker   string
	Port     int
	ClientID string
	// TopicPrefix prefixes the readings topic: <TopicPrefix>/readings.
	TopicPrefix string
}

// Client wraps a paho MQTT client with connection-state tracking.
type Client struct {
	client mqtt.Client
	topic  string
	logger *slog.Logger

	mu        sync.RWMutex
	connected bool
}

// NewClient builds the client without connecting.
func NewClient(opts Options, logger *slog.Logger) *Client {
	c := &Client{
		topic:  opts.TopicPrefix + "/readings",
		logger: logger,
	}

	mopts := mqtt.NewClientOptions()
	mopts.AddBroker(fmt.Sprintf("tcp://%s:%d", opts.Broker, opts.Port))
	mopts.SetClientID(opts.ClientID)
	mopts.SetCleanSession(true)

	mopts.SetAutoReconnect(true)
	mopts.SetConnectRetry(true)
	mopts.SetConnectRetryInterval(5 * time.Second)
	mopts.SetMaxReconnectInterval(60 * time.Second)

	mopts.SetKeepAlive(30 * time.Second)
	mopts.SetPingTimeout(10 * time.Second)

	mopts.SetOnConnectHandler(func(_ mqtt.Client) {
		c.setConnected(true)
		logger.Info("mqtt connected", "broker", opts.Broker, "port", opts.Port)
	})
	mopts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		c.setConnected(false)
		logger.Warn("mqtt connection lost", "error", err)
	})

	c.client = mqtt.NewClient(mopts)
	return c
}

// Connect waits for the initial broker connection or ctx expiry. With
// connect-retry enabled, paho keeps retrying in the background either
// way.
func (c *Client) Connect(ctx context.Context) error {
	if c.IsConnected() {
		return nil
	}

	token := c.client.Connect()

	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// PublishReading sends one reading to the readings topic at QoS 1.
func (c *Client) PublishReading(r reading.Reading) error {
	if !c.IsConnected() {
		return fmt.Errorf("mqtt not connected")
	}

	payload, err := json.Marshal(Telemetry{
		Timestamp:   r.Timestamp(),
		TempC:       r.TempC,
		TempF:       r.TempF,
		TempK:       r.TempK,
		PressureHPa: r.PressureHPa,
	})
	if err != nil {
		return fmt.Errorf("marshal telemetry: %w", err)
	}

	token := c.client.Publish(c.topic, 1, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("mqtt publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish: %w", err)
	}
	return nil
}

// Close disconnects from the broker.
func (c *Client) Close() {
	c.client.Disconnect(250)
	c.setConnected(false)
}

// IsConnected reports the tracked connection state.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}
