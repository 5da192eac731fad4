package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heliodor/duskshift/pkg/config"
	"github.com/heliodor/duskshift/pkg/mqtt"
)

// temperatureMessage is the payload published for every adjustment.
type temperatureMessage struct {
	Kelvin    int        `json:"kelvin"`
	Gamma     [3]float64 `json:"gamma"`
	Timestamp time.Time  `json:"timestamp"`
}

// MQTT publishes temperature updates to a broker topic so networked
// lights can follow the display. There is no way to read back the
// state that was active before we connected, so Restore republishes
// the neutral state captured at initialization.
type MQTT struct {
	logger *slog.Logger
	client mqtt.Client
	topic  string
	saved  []byte
}

// NewMQTT connects to the configured broker. Fails fast when no broker
// is configured or unreachable, so the prober can move on.
func NewMQTT(cfg *config.Config, logger *slog.Logger) (*MQTT, error) {
	if cfg.MQTTBroker == "" {
		return nil, errors.New("no MQTT broker configured")
	}
	client := mqtt.NewClient(cfg, logger)
	if err := client.Connect(); err != nil {
		return nil, err
	}
	base := cfg.MQTTTopic
	if base == "" {
		base = mqtt.DefaultTemperatureTopic
	}
	return newMQTTWithClient(client, mqtt.TemperatureTopic(base, cfg.Screen), logger)
}

func newMQTTWithClient(client mqtt.Client, topic string, logger *slog.Logger) (*MQTT, error) {
	m := &MQTT{
		logger: logger,
		client: client,
		topic:  topic,
	}

	saved, err := json.Marshal(temperatureMessage{
		Kelvin:    neutralTemp,
		Gamma:     [3]float64{1.0, 1.0, 1.0},
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding restore payload: %w", err)
	}
	m.saved = saved

	return m, nil
}

// SetTemperature publishes the new temperature, retained so lights
// joining late converge to the current state.
func (m *MQTT) SetTemperature(kelvin int, gamma [3]float64) error {
	payload, err := json.Marshal(temperatureMessage{
		Kelvin:    kelvin,
		Gamma:     gamma,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding temperature payload: %w", err)
	}
	if err := m.client.Publish(m.topic, 0, true, payload); err != nil {
		return err
	}
	m.logger.Debug("Applied color temperature", "method", "mqtt", "kelvin", kelvin, "topic", m.topic)
	return nil
}

// Restore republishes the neutral state captured at initialization.
func (m *MQTT) Restore() error {
	return m.client.Publish(m.topic, 0, true, m.saved)
}

// Free disconnects from the broker.
func (m *MQTT) Free() {
	m.client.Disconnect()
}
