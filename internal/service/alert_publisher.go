// Package service holds outbound integrations used by the HTTP handlers.
package service

import (
    "context"
    "encoding/json"
    "fmt"
    "sync"
    "time"

    "github.com/google/uuid"
    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/farm-biosecurity/internal/logger"
    q "github.com/iliyamo/farm-biosecurity/internal/queue"
)

// AlertNotifier delivers high-risk alerts to whoever has to act on them.
type AlertNotifier interface {
    NotifyHighRisk(ctx context.Context, ev q.HighRiskAlertEvent) error
}

// NewAlertNotifier picks the AMQP publisher when a broker URL is
// configured and the log-only notifier otherwise.
func NewAlertNotifier(url string, log *logger.Logger) AlertNotifier {
    if url == "" {
        return &LogNotifier{Log: log}
    }
    return &AMQPPublisher{URL: url, Log: log}
}

// stamp fills the event id and timestamp when the caller left them empty.
func stamp(ev *q.HighRiskAlertEvent) {
    if ev.EventID == "" {
        ev.EventID = uuid.NewString()
    }
    if ev.AssessedAt == "" {
        ev.AssessedAt = time.Now().UTC().Format(time.RFC3339)
    }
}

// LogNotifier writes the alert to the application log only.
type LogNotifier struct{ Log *logger.Logger }

func (n *LogNotifier) NotifyHighRisk(_ context.Context, ev q.HighRiskAlertEvent) error {
    stamp(&ev)
    n.Log.Warn("ALERT: high risk detected", "farm_id", ev.FarmID, "farm", ev.FarmName, "score", ev.Score, "event_id", ev.EventID)
    return nil
}

// AMQPPublisher publishes alerts to the durable HighRiskQueue.  A
// connection is dialed per message; alerts are rare enough that pooling
// is not worth the reconnect handling.
type AMQPPublisher struct {
    URL string
    Log *logger.Logger
}

// defaultDialTimeout applies when the caller's context has no deadline.
const defaultDialTimeout = 5 * time.Second

// dialTimeout bounds connect and handshake by the context deadline.
func dialTimeout(ctx context.Context) time.Duration {
    d, ok := ctx.Deadline()
    if !ok {
        return defaultDialTimeout
    }
    if left := time.Until(d); left > 0 {
        return left
    }
    return time.Millisecond
}

func (p *AMQPPublisher) NotifyHighRisk(ctx context.Context, ev q.HighRiskAlertEvent) error {
    stamp(&ev)
    if err := ctx.Err(); err != nil {
        return err
    }
    body, err := json.Marshal(ev)
    if err != nil {
        return fmt.Errorf("marshal alert: %w", err)
    }

    conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(dialTimeout(ctx))})
    if err != nil {
        return fmt.Errorf("rabbitmq dial: %w", err)
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("rabbitmq channel: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(q.HighRiskQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("rabbitmq queue declare: %w", err)
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    ev.EventID,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", q.HighRiskQueue, false, false, pub); err != nil {
        return fmt.Errorf("rabbitmq publish: %w", err)
    }
    p.Log.Info("high risk alert published", "farm_id", ev.FarmID, "event_id", ev.EventID)
    return nil
}

// MemoryNotifier records alerts in memory.  Tests and the seeder use it.
type MemoryNotifier struct {
    mu     sync.Mutex
    Events []q.HighRiskAlertEvent
}

func (m *MemoryNotifier) NotifyHighRisk(_ context.Context, ev q.HighRiskAlertEvent) error {
    stamp(&ev)
    m.mu.Lock()
    defer m.mu.Unlock()
    m.Events = append(m.Events, ev)
    return nil
}

// Snapshot returns a copy of the recorded events.
func (m *MemoryNotifier) Snapshot() []q.HighRiskAlertEvent {
    m.mu.Lock()
    defer m.mu.Unlock()
    return append([]q.HighRiskAlertEvent(nil), m.Events...)
}
