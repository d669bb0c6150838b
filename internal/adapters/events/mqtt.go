package events

import (
	"context"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// MQTTPublisher publishes to an actual MQTT broker.
type MQTTPublisher struct {
	client paho.Client
	prefix string
}

func NewMQTTPublisher(broker, clientID, prefix string) (*MQTTPublisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt: connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect to broker: %w", err)
	}

	return &MQTTPublisher{client: client, prefix: prefix}, nil
}

// PublishStreakChanged sends the event with QoS 0, not retained.
func (p *MQTTPublisher) PublishStreakChanged(ctx context.Context, event domain.StreakChanged) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("mqtt: format payload: %w", err)
	}

	timeout := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < timeout {
			timeout = d
		}
	}

	token := p.client.Publish(Topic(p.prefix, event.HabitID), 0, false, payload)
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("mqtt: publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: publish: %w", err)
	}
	return nil
}

func (p *MQTTPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(1000)
	return nil
}
