package live

// This file implements the real-time event channel over Redis pub/sub.
// Each auction has its own channel; gateway processes subscribe to the
// channels of the auctions their connected clients watch and forward the
// JSON envelopes verbatim.  When Redis is unavailable the channel is a
// no-op so bidding keeps working without real-time updates.

import (
    "context"
    "encoding/json"
    "time"

    "github.com/redis/go-redis/v9"
    "github.com/sirupsen/logrus"
)

// Envelope is the wire format published to a room channel.  Event names
// follow the "auction:*" convention and Payload is the event-specific body.
type Envelope struct {
    Event   string      `json:"event"`
    Payload interface{} `json:"payload"`
    SentAt  time.Time   `json:"sent_at"`
}

// Channel publishes auction events to Redis pub/sub.  A nil client makes
// every Publish a no-op.
type Channel struct {
    client *redis.Client
    log    *logrus.Logger
}

// NewChannel constructs a Channel.  client may be nil.
func NewChannel(client *redis.Client, log *logrus.Logger) *Channel {
    return &Channel{client: client, log: log}
}

// Publish sends the event to every subscriber of the room's channel.
func (c *Channel) Publish(ctx context.Context, room, event string, payload interface{}) error {
    if c.client == nil {
        return nil
    }
    body, err := json.Marshal(Envelope{Event: event, Payload: payload, SentAt: time.Now().UTC()})
    if err != nil {
        return err
    }
    if err := c.client.Publish(ctx, room, body).Err(); err != nil {
        return err
    }
    c.log.WithFields(logrus.Fields{"room": room, "event": event}).Debug("event published")
    return nil
}

// Subscribe returns a pub/sub subscription for the given rooms.  The
// caller owns the subscription and must Close it.  Returns nil when no
// Redis client is configured.
func (c *Channel) Subscribe(ctx context.Context, rooms ...string) *redis.PubSub {
    if c.client == nil {
        return nil
    }
    return c.client.Subscribe(ctx, rooms...)
}
