package mqttbridge

import (
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/muurk/inels/internal/config"
	"github.com/muurk/inels/internal/logging"
)

const (
	defaultConnectTimeout    = 10 * time.Second
	defaultPublishTimeout    = 5 * time.Second
	defaultDisconnectQuiesce = 1000 // milliseconds
	defaultKeepAlive         = 60 * time.Second
)

// MessageHandler is called for each received message.
// Handlers run on paho's goroutines and should not block for long.
type MessageHandler func(topic string, payload []byte) error

// Publisher is the broker access the bridge needs
type Publisher interface {
	Publish(topic string, payload []byte, retained bool) error
	Subscribe(topic string, handler MessageHandler) error
}

var _ Publisher = (*MQTTClient)(nil)

// MQTTClient wraps paho.mqtt.golang.
// Subscriptions are restored after a reconnect.
type MQTTClient struct {
	client pahomqtt.Client
	qos    byte
	topics Topics

	subscriptions map[string]MessageHandler
	subMu         sync.RWMutex
}

// buildClientOptions creates paho options from the bridge configuration
func buildClientOptions(cfg config.MQTTConfig, topics Topics) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.SetKeepAlive(defaultKeepAlive)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(time.Minute)
	opts.SetCleanSession(true)
	opts.SetOrderMatters(false)
	opts.SetWill(topics.BridgeStatus(), PayloadOffline, byte(cfg.QoS), true)

	return opts
}

// Connect establishes a connection to the broker and announces the bridge
func Connect(cfg config.MQTTConfig) (*MQTTClient, error) {
	topics := Topics{Prefix: cfg.TopicPrefix}
	opts := buildClientOptions(cfg, topics)

	c := &MQTTClient{
		qos:           byte(cfg.QoS),
		topics:        topics,
		subscriptions: make(map[string]MessageHandler),
	}

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.handleConnect()
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		logging.Warn("MQTT connection lost", zap.String("broker", cfg.Broker), zap.Error(err))
	})

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	logging.Info("MQTT connected", zap.String("broker", cfg.Broker), zap.String("client_id", cfg.ClientID))
	return c, nil
}

// handleConnect restores subscriptions and republishes the online status
func (c *MQTTClient) handleConnect() {
	c.subMu.RLock()
	for topic, handler := range c.subscriptions {
		c.client.Subscribe(topic, c.qos, c.wrapHandler(handler))
	}
	c.subMu.RUnlock()

	c.client.Publish(c.topics.BridgeStatus(), c.qos, true, PayloadOnline)
}

// Publish sends a message with the configured QoS
func (c *MQTTClient) Publish(topic string, payload []byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if !c.client.IsConnected() {
		return ErrNotConnected
	}

	logging.LogMQTTMessage("sent", topic, payload)

	token := c.client.Publish(topic, c.qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// Subscribe registers a handler for a topic pattern
func (c *MQTTClient) Subscribe(topic string, handler MessageHandler) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if handler == nil {
		return fmt.Errorf("%w: handler cannot be nil", ErrSubscribeFailed)
	}

	c.subMu.Lock()
	c.subscriptions[topic] = handler
	c.subMu.Unlock()

	token := c.client.Subscribe(topic, c.qos, c.wrapHandler(handler))
	if !token.WaitTimeout(defaultPublishTimeout) {
		c.forget(topic)
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		c.forget(topic)
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}
	return nil
}

func (c *MQTTClient) forget(topic string) {
	c.subMu.Lock()
	delete(c.subscriptions, topic)
	c.subMu.Unlock()
}

// wrapHandler adds panic recovery and logging to a MessageHandler
func (c *MQTTClient) wrapHandler(handler MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				logging.Error("MQTT handler panic recovered",
					zap.String("topic", msg.Topic()),
					zap.Any("panic", r),
				)
			}
		}()

		logging.LogMQTTMessage("received", msg.Topic(), msg.Payload())

		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			logging.Warn("MQTT handler returned error",
				zap.String("topic", msg.Topic()),
				zap.Error(err),
			)
		}
	}
}

// Close publishes the offline status and disconnects
func (c *MQTTClient) Close() error {
	if c.client == nil {
		return nil
	}

	if c.client.IsConnected() {
		token := c.client.Publish(c.topics.BridgeStatus(), c.qos, true, PayloadOffline)
		token.WaitTimeout(defaultPublishTimeout)
	}

	c.client.Disconnect(defaultDisconnectQuiesce)
	return nil
}
