package service

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/yoga-studio-booking/internal/config"
    "github.com/iliyamo/yoga-studio-booking/internal/logger"
    "github.com/iliyamo/yoga-studio-booking/internal/queue"
)

// Publisher delivers a push message to everyone following its topic.
type Publisher interface {
    Publish(ctx context.Context, msg queue.PushMessage) error
}

// AMQPPublisher publishes to the notifications topic exchange with the topic
// as routing key. The connection is opened on first use and re-opened after
// it drops. Errors are logged and returned so the caller can choose to
// ignore them.
type AMQPPublisher struct {
    cfg config.QueueConfig

    mu   sync.Mutex
    conn *amqp.Connection
    ch   *amqp.Channel
}

const defaultDialTimeout = 5 * time.Second

func NewAMQPPublisher(cfg config.QueueConfig) *AMQPPublisher {
    return &AMQPPublisher{cfg: cfg}
}

// dialTimeout bounds a dial by the configured timeout and by ctx's deadline.
func (p *AMQPPublisher) dialTimeout(ctx context.Context) (time.Duration, error) {
    timeout := p.cfg.DialTimeout
    if timeout <= 0 {
        timeout = defaultDialTimeout
    }
    if deadline, ok := ctx.Deadline(); ok {
        left := time.Until(deadline)
        if left <= 0 {
            return 0, context.DeadlineExceeded
        }
        timeout = min(timeout, left)
    }
    return timeout, nil
}

func (p *AMQPPublisher) channel(ctx context.Context) (*amqp.Channel, error) {
    if p.ch != nil && !p.ch.IsClosed() {
        return p.ch, nil
    }
    if p.conn == nil || p.conn.IsClosed() {
        timeout, err := p.dialTimeout(ctx)
        if err != nil {
            return nil, fmt.Errorf("dial: %w", err)
        }
        // amqp.Dial ignores ctx and waits up to 30s; DefaultDial's deadline
        // also covers the handshake.
        conn, err := amqp.DialConfig(p.cfg.URL, amqp.Config{
            Heartbeat: 10 * time.Second,
            Locale:    "en_US",
            Dial:      amqp.DefaultDial(timeout),
        })
        if err != nil {
            return nil, fmt.Errorf("dial: %w", err)
        }
        p.conn = conn
    }
    ch, err := p.conn.Channel()
    if err != nil {
        return nil, fmt.Errorf("channel open: %w", err)
    }
    // Declaring the relay queue here too means messages published before
    // the relay first connects are kept.
    if err := queue.DeclareTopology(ch, p.cfg.Exchange, p.cfg.RelayQueue); err != nil {
        _ = ch.Close()
        return nil, err
    }
    p.ch = ch
    return ch, nil
}

// Publish sends msg with routing key msg.Topic. Messages are persistent.
func (p *AMQPPublisher) Publish(ctx context.Context, msg queue.PushMessage) error {
    if msg.Topic == "" {
        return errors.New("publish: empty topic")
    }
    if msg.SentAt.IsZero() {
        msg.SentAt = time.Now().UTC()
    }
    body, err := json.Marshal(msg)
    if err != nil {
        return fmt.Errorf("marshal push message: %w", err)
    }

    p.mu.Lock()
    defer p.mu.Unlock()

    ch, err := p.channel(ctx)
    if err != nil {
        logger.Warn().Err(err).Str("topic", msg.Topic).Msg("rabbitmq: unavailable")
        return err
    }
    err = ch.PublishWithContext(ctx, p.cfg.Exchange, msg.Topic, false, false, amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    msg.SentAt,
        Body:         body,
    })
    if err != nil {
        logger.Warn().Err(err).Str("topic", msg.Topic).Msg("rabbitmq: publish failed")
        _ = ch.Close()
        p.ch = nil
        return err
    }
    return nil
}

// Ping reports whether the broker can be reached. A dial is bounded by
// ctx's deadline.
func (p *AMQPPublisher) Ping(ctx context.Context) error {
    p.mu.Lock()
    defer p.mu.Unlock()
    _, err := p.channel(ctx)
    return err
}

// Close releases the broker connection.
func (p *AMQPPublisher) Close() error {
    p.mu.Lock()
    defer p.mu.Unlock()
    if p.conn == nil {
        return nil
    }
    err := p.conn.Close()
    p.conn, p.ch = nil, nil
    return err
}
