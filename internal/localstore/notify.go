package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// InMemoryNotifier fans changes out to in-process subscribers.
// Slow subscribers lose events rather than block publishers.
type InMemoryNotifier struct {
	mu   sync.Mutex
	subs map[chan Change]struct{}
}

// NewInMemoryNotifier creates a notifier with no subscribers.
func NewInMemoryNotifier() *InMemoryNotifier {
	return &InMemoryNotifier{subs: make(map[chan Change]struct{})}
}

// Publish delivers c to every current subscriber.
func (n *InMemoryNotifier) Publish(ctx context.Context, c Change) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- c:
		default:
		}
	}
	return nil
}

// Subscribe registers a subscriber until ctx ends.
func (n *InMemoryNotifier) Subscribe(ctx context.Context) (<-chan Change, error) {
	ch := make(chan Change, subscriberBuffer)
	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.mu.Lock()
		delete(n.subs, ch)
		close(ch)
		n.mu.Unlock()
	}()
	return ch, nil
}

// RedisNotifier implements Notifier over Redis PUBLISH/SUBSCRIBE.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

// NewRedisNotifier builds a notifier on the given pub/sub channel.
func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	if channel == "" {
		channel = "cgmis:local:changes"
	}
	return &RedisNotifier{client: client, channel: channel}
}

// Publish sends c to all subscribers of the channel.
func (n *RedisNotifier) Publish(ctx context.Context, c Change) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("localstore: encode change: %w", err)
	}
	return n.client.Publish(ctx, n.channel, payload).Err()
}

// Subscribe returns once the subscription is confirmed by the server.
func (n *RedisNotifier) Subscribe(ctx context.Context) (<-chan Change, error) {
	pubsub := n.client.Subscribe(ctx, n.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("localstore: subscribe %s: %w", n.channel, err)
	}

	out := make(chan Change, subscriberBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var c Change
				if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
					continue
				}
				select {
				case out <- c:
				default:
				}
			}
		}
	}()
	return out, nil
}
