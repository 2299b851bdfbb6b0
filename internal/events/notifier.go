// Package events publishes session lifecycle events over MQTT so external
// dashboards can follow training runs. Publishing is fire-and-forget; a
// nil notifier disables it.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

type Config struct {
	BrokerURL   string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

// Event is the wire payload published on session transitions.
type Event struct {
	Tipo          string    `json:"tipo"` // iniciada, turno, finalizada
	SesionID      string    `json:"sesion_id"`
	Personalidad  string    `json:"personalidad,omitempty"`
	Canal         string    `json:"canal,omitempty"`
	Turno         int       `json:"turno,omitempty"`
	PuntajeGlobal float64   `json:"puntaje_global,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type Notifier struct {
	cfg    Config
	client paho.Client
	logger *slog.Logger
}

func NewNotifier(cfg Config, logger *slog.Logger) *Notifier {
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = "autobot"
	}
	return &Notifier{cfg: cfg, logger: logger}
}

func (n *Notifier) Start(ctx context.Context) error {
	opts := paho.NewClientOptions().
		AddBroker(n.cfg.BrokerURL).
		SetClientID(n.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	if n.cfg.Username != "" {
		opts.SetUsername(n.cfg.Username)
		opts.SetPassword(n.cfg.Password)
	}

	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		n.logger.Error("mqtt connection lost", "error", err)
	})

	n.client = paho.NewClient(opts)
	if token := n.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}

	go func() {
		<-ctx.Done()
		n.client.Disconnect(100)
	}()

	n.logger.Info("event notifier connected", "broker", n.cfg.BrokerURL)
	return nil
}

// Publish sends one event. A nil receiver is a no-op so callers can wire
// the notifier conditionally. Delivery failures are logged, not returned.
func (n *Notifier) Publish(ev Event) {
	if n == nil || n.client == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		n.logger.Error("event encode failed", "tipo", ev.Tipo, "error", err)
		return
	}

	topic := fmt.Sprintf("%s/sesiones/%s/%s", n.cfg.TopicPrefix, ev.SesionID, ev.Tipo)
	token := n.client.Publish(topic, 0, false, payload)
	go func() {
		if token.Wait() && token.Error() != nil {
			n.logger.Error("event publish failed", "topic", topic, "error", token.Error())
		}
	}()
}
