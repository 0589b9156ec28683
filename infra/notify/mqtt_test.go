package notify

import (
	"fmt"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/knhuang/robotaxi-safety-tracker/infra/logger"
)

type fakeToken struct{ err error }

func (t *fakeToken) Wait() bool                       { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool   { return true }
func (t *fakeToken) Done() <-chan struct{}            { ch := make(chan struct{}); close(ch); return ch }
func (t *fakeToken) Error() error                     { return t.err }

type fakeMQTTClient struct {
	connectErr   error
	publishErr   error
	topic        string
	payload      []byte
	qos          byte
	retained     bool
	disconnected bool
}

func (c *fakeMQTTClient) Connect() paho.Token { return &fakeToken{err: c.connectErr} }
func (c *fakeMQTTClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	c.topic, c.qos, c.retained = topic, qos, retained
	c.payload = payload.([]byte)
	return &fakeToken{err: c.publishErr}
}
func (c *fakeMQTTClient) Disconnect(quiesce uint) { c.disconnected = true }

func withFakeClient(t *testing.T, cli *fakeMQTTClient) {
	t.Helper()
	orig := newMQTTClient
	newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return cli }
	t.Cleanup(func() { newMQTTClient = orig })
}

func TestPublishRetainedSummary(t *testing.T) {
	cli := &fakeMQTTClient{}
	withFakeClient(t, cli)

	pub, err := NewMQTTPublisher(MQTTConfig{
		Broker: "tcp://broker:1883", Topic: "safety-tracker/summary", QoS: 1, Retain: true,
	}, logger.NopLogger{})
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	if err := pub.Publish([]byte(`{"run_id":"r1"}`)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if cli.topic != "safety-tracker/summary" || cli.qos != 1 || !cli.retained {
		t.Fatalf("published topic=%s qos=%d retained=%v", cli.topic, cli.qos, cli.retained)
	}
	if string(cli.payload) != `{"run_id":"r1"}` {
		t.Fatalf("payload = %s", cli.payload)
	}
	if !cli.disconnected {
		t.Fatal("client left connected after a batch publish")
	}
}

func TestPublishConnectFailure(t *testing.T) {
	withFakeClient(t, &fakeMQTTClient{connectErr: fmt.Errorf("refused")})
	pub, err := NewMQTTPublisher(MQTTConfig{Broker: "tcp://broker:1883", Topic: "t"}, logger.NopLogger{})
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	if err := pub.Publish([]byte("x")); err == nil {
		t.Fatal("expected connect error")
	}
}

func TestNewMQTTPublisherValidation(t *testing.T) {
	if _, err := NewMQTTPublisher(MQTTConfig{Topic: "t"}, logger.NopLogger{}); err == nil {
		t.Fatal("broker is required")
	}
	if _, err := NewMQTTPublisher(MQTTConfig{Broker: "tcp://b:1883"}, logger.NopLogger{}); err == nil {
		t.Fatal("topic is required")
	}
	pub, err := NewMQTTPublisher(MQTTConfig{Broker: "tcp://b:1883", Topic: "t"}, logger.NopLogger{})
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	if pub.cfg.ClientID == "" {
		t.Fatal("client ID must be defaulted")
	}
}
