package notify

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/knhuang/robotaxi-safety-tracker/infra/logger"
)

// MQTTConfig defines the connection parameters for the summary
// publisher.
type MQTTConfig struct {
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Topic    string `json:"topic"`
	QoS      byte   `json:"qos"`
	Retain   bool   `json:"retain"`
}

// pahoClient narrows the Paho client to what the publisher needs; tests
// swap it out.
type pahoClient interface {
	Connect() paho.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// MQTTPublisher pushes the run summary JSON to a broker topic, retained
// by default so dashboards joining later still see the latest run.
type MQTTPublisher struct {
	cfg MQTTConfig
	log logger.Logger
}

// NewMQTTPublisher builds a publisher; it connects lazily on Publish.
func NewMQTTPublisher(cfg MQTTConfig, log logger.Logger) (*MQTTPublisher, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt broker is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("mqtt topic is required")
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "safety-tracker-" + uuid.NewString()[:8]
	}
	return &MQTTPublisher{cfg: cfg, log: log}, nil
}

// Publish connects, publishes the payload and disconnects. A batch run
// has no reason to hold the connection open.
func (p *MQTTPublisher) Publish(payload []byte) error {
	opts := paho.NewClientOptions().
		AddBroker(p.cfg.Broker).
		SetClientID(p.cfg.ClientID).
		SetConnectTimeout(10 * time.Second)
	if p.cfg.Username != "" {
		opts.SetUsername(p.cfg.Username)
		opts.SetPassword(p.cfg.Password)
	}
	cli := newMQTTClient(opts)
	if tok := cli.Connect(); tok.Wait() && tok.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", tok.Error())
	}
	defer cli.Disconnect(250)

	if tok := cli.Publish(p.cfg.Topic, p.cfg.QoS, p.cfg.Retain, payload); tok.Wait() && tok.Error() != nil {
		return fmt.Errorf("mqtt publish: %w", tok.Error())
	}
	p.log.Infof("published summary to %s", p.cfg.Topic)
	return nil
}
