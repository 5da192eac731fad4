package backend

import (
	"encoding/json"
	"errors"
	"testing"
)

// fakeMQTTClient records published payloads.
type fakeMQTTClient struct {
	topics       []string
	payloads     [][]byte
	retained     []bool
	publishErr   error
	disconnected bool
}

func (f *fakeMQTTClient) Connect() error { return nil }
func (f *fakeMQTTClient) Disconnect()    { f.disconnected = true }
func (f *fakeMQTTClient) IsConnected() bool {
	return !f.disconnected
}
func (f *fakeMQTTClient) Publish(topic string, qos byte, retained bool, payload []byte) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload)
	f.retained = append(f.retained, retained)
	return nil
}

func TestMQTTSetTemperaturePublishes(t *testing.T) {
	client := &fakeMQTTClient{}
	m, err := newMQTTWithClient(client, "duskshift/temperature", testLogger())
	if err != nil {
		t.Fatalf("newMQTTWithClient: %v", err)
	}

	if err := m.SetTemperature(4200, [3]float64{1.0, 0.9, 0.8}); err != nil {
		t.Fatalf("SetTemperature: %v", err)
	}

	if len(client.payloads) != 1 {
		t.Fatalf("expected one publish, got %d", len(client.payloads))
	}
	if client.topics[0] != "duskshift/temperature" {
		t.Errorf("unexpected topic %q", client.topics[0])
	}
	if !client.retained[0] {
		t.Error("expected temperature updates to be retained")
	}

	var msg temperatureMessage
	if err := json.Unmarshal(client.payloads[0], &msg); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if msg.Kelvin != 4200 {
		t.Errorf("expected kelvin 4200, got %d", msg.Kelvin)
	}
	if msg.Gamma != [3]float64{1.0, 0.9, 0.8} {
		t.Errorf("unexpected gamma %v", msg.Gamma)
	}
}

func TestMQTTRestorePublishesNeutral(t *testing.T) {
	client := &fakeMQTTClient{}
	m, err := newMQTTWithClient(client, "duskshift/temperature", testLogger())
	if err != nil {
		t.Fatalf("newMQTTWithClient: %v", err)
	}

	if err := m.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	var msg temperatureMessage
	if err := json.Unmarshal(client.payloads[0], &msg); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if msg.Kelvin != neutralTemp {
		t.Errorf("expected neutral %d on restore, got %d", neutralTemp, msg.Kelvin)
	}
}

func TestMQTTPublishErrorPropagates(t *testing.T) {
	client := &fakeMQTTClient{publishErr: errors.New("broker gone")}
	m, err := newMQTTWithClient(client, "duskshift/temperature", testLogger())
	if err != nil {
		t.Fatalf("newMQTTWithClient: %v", err)
	}

	if err := m.SetTemperature(4200, [3]float64{1.0, 1.0, 1.0}); err == nil {
		t.Fatal("expected publish error to propagate")
	}
}

func TestMQTTFreeDisconnects(t *testing.T) {
	client := &fakeMQTTClient{}
	m, err := newMQTTWithClient(client, "duskshift/temperature", testLogger())
	if err != nil {
		t.Fatalf("newMQTTWithClient: %v", err)
	}

	m.Free()
	if !client.disconnected {
		t.Error("expected Free to disconnect the client")
	}
}
