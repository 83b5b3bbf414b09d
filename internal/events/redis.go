package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Envelope is the JSON message published for every profile event.
type Envelope struct {
	Name      string    `json:"name"`
	ProfileID uint      `json:"profile_id"`
	Code      string    `json:"code,omitempty"`
	Locale    string    `json:"locale,omitempty"`
	At        time.Time `json:"at"`
}

// RedisPublisher publishes profile events on a Redis channel so other
// processes can drop their cached authorizations.
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
	now     func() time.Time
}

// NewRedisPublisher creates a publisher on channel.
func NewRedisPublisher(client redis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, now: time.Now}
}

// Dial connects to addr and verifies the connection.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("events: redis ping: %w", err)
	}
	return client, nil
}

// Dispatch publishes the event envelope.
func (p *RedisPublisher) Dispatch(ctx context.Context, name string, ev *ProfileEvent) error {
	env := Envelope{Name: name, Locale: ev.Locale, At: p.now().UTC()}
	if ev.Profile != nil {
		env.ProfileID = ev.Profile.ID
		env.Code = ev.Profile.Code
	} else {
		env.ProfileID = ev.ID
		env.Code = ev.Code
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", name, err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("events: publish %s: %w", name, err)
	}
	return nil
}
