// Package queue contains the background consumer that listens to the
// high-risk queue and appends each alert to <dir>/alerts.log.
package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/farm-biosecurity/internal/logger"
)

// AlertConsumer drains HighRiskQueue into a log file.
type AlertConsumer struct {
    URL    string
    LogDir string
    Log    *logger.Logger
}

// Run connects to the broker and consumes until ctx is cancelled.  Broker
// failures trigger a reconnect with exponential backoff capped at 30s;
// a message that cannot be handled is rejected without requeue.
func (ac *AlertConsumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(ac.URL)
        if err != nil {
            ac.Log.Warn("alert consumer: dial failed", "error", err, "retry_in", backoff.String())
            select {
            case <-ctx.Done():
                return ctx.Err()
            case <-time.After(backoff):
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = ac.consume(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        ac.Log.Warn("alert consumer: loop ended, reconnecting", "error", err)
        select {
        case <-ctx.Done():
            return ctx.Err()
        case <-time.After(2 * time.Second):
        }
    }
}

func (ac *AlertConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(20, 0, false); err != nil {
        ac.Log.Warn("alert consumer: set QoS failed", "error", err)
    }
    if _, err := ch.QueueDeclare(HighRiskQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(HighRiskQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := HandleAlert(ac.LogDir, d.Body); err != nil {
                ac.Log.Error("alert consumer: handle message failed", "error", err)
                _ = d.Nack(false, false)
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// HandleAlert decodes one event and appends a single line to alerts.log
// inside dir, creating the directory when needed.
func HandleAlert(dir string, body []byte) error {
    var ev HighRiskAlertEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.FarmID == 0 {
        return errors.New("event without farm_id")
    }
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", dir, err)
    }
    f, err := os.OpenFile(filepath.Join(dir, "alerts.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    line := fmt.Sprintf("[%s] ALERT: High risk detected | farm_id=%d | farm=%q | location=%q | score=%d | assessment_id=%d | author_id=%d (%s) | event_id=%s\n",
        ev.AssessedAt, ev.FarmID, ev.FarmName, ev.Location, ev.Score, ev.AssessmentID, ev.AuthorID, ev.AuthorRole, ev.EventID)
    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}
