package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog"

    "github.com/iliyamo/yoga-studio-booking/internal/config"
    "github.com/iliyamo/yoga-studio-booking/internal/logger"
    "github.com/iliyamo/yoga-studio-booking/internal/model"
)

// Relay consumes every course topic from the notifications exchange and
// shows each message on a Sink.
type Relay struct {
    cfg  config.QueueConfig
    sink Sink
    log  zerolog.Logger
}

func NewRelay(cfg config.QueueConfig, sink Sink) *Relay {
    return &Relay{cfg: cfg, sink: sink, log: logger.With("relay")}
}

// Run keeps a consumer attached to the broker until ctx is cancelled,
// redialling with exponential backoff (capped at 30s) whenever the
// connection drops.
func (r *Relay) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(r.cfg.URL)
        if err != nil {
            r.log.Warn().Err(err).Dur("retry_in", backoff).Msg("failed to dial broker")
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = r.consume(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        r.log.Warn().Err(err).Msg("consume loop ended; reconnecting")
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

// DeclareTopology declares the topic exchange, and the relay queue bound to
// every routing key when queue is non-empty. Publisher and relay share it.
func DeclareTopology(ch *amqp.Channel, exchange, queue string) error {
    if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
        return fmt.Errorf("exchange declare: %w", err)
    }
    if queue == "" {
        return nil
    }
    if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    if err := ch.QueueBind(queue, "#", exchange, false, nil); err != nil {
        return fmt.Errorf("queue bind: %w", err)
    }
    return nil
}

func (r *Relay) consume(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        r.log.Warn().Err(err).Msg("set QoS failed")
    }
    if err := DeclareTopology(ch, r.cfg.Exchange, r.cfg.RelayQueue); err != nil {
        return err
    }

    msgs, err := ch.Consume(r.cfg.RelayQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }
    r.log.Info().Str("queue", r.cfg.RelayQueue).Msg("relay consuming")

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := r.Handle(d.RoutingKey, d.Body); err != nil {
                r.log.Error().Err(err).Str("routing_key", d.RoutingKey).Msg("handle message failed")
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// Handle decodes one delivery and shows every rendered notification.
func (r *Relay) Handle(routingKey string, body []byte) error {
    var msg PushMessage
    if err := json.Unmarshal(body, &msg); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if msg.Topic == "" {
        msg.Topic = routingKey
    }
    if courseID, ok := model.CourseIDFromTopic(msg.Topic); ok {
        r.log.Debug().Str("course_id", courseID).Msg("relaying course notification")
    }
    for _, n := range Render(msg) {
        if err := r.sink.Show(n); err != nil {
            return err
        }
    }
    return nil
}
