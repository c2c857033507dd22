// Package notify implements the event buses change notifications fan out
// on: an in-process pattern-subscription hub and a Kafka publisher.
package notify

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Message is one delivered notification. Channel is the channel it was
// published on; Pattern is the subscription pattern that matched it.
type Message struct {
	Pattern string
	Channel string
	Payload string
}

// Hub fans a single change notification out as two published messages:
// a per-key channel carrying the event name and a per-event channel
// carrying the key. Subscribers register glob patterns over channels.
type Hub struct {
	mu     sync.Mutex
	log    *slog.Logger
	subs   map[*Subscriber]struct{}
	buffer int
}

type HubConfig struct {
	Log *slog.Logger
	// Buffer is each subscriber's channel capacity. A subscriber whose
	// buffer is full misses messages rather than blocking publishers.
	Buffer int
}

func NewHub(cfg *HubConfig) *Hub {
	if cfg == nil {
		cfg = &HubConfig{}
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{
		log:    log,
		subs:   make(map[*Subscriber]struct{}),
		buffer: buffer,
	}
}

// PublishChange publishes the keyspace message then the keyevent
// message for one change notification.
func (h *Hub) PublishChange(event, key string) {
	h.Publish("__keyspace@0__:"+key, event)
	h.Publish("__keyevent@0__:"+event, key)
}

// Publish delivers payload on channel to every subscriber with a
// matching pattern, once per subscriber.
func (h *Hub) Publish(channel, payload string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		pat, ok := sub.match(channel)
		if !ok {
			continue
		}
		msg := Message{Pattern: pat, Channel: channel, Payload: payload}
		select {
		case sub.ch <- msg:
		default:
			sub.dropped++
			if sub.dropped == 1 {
				h.log.Warn("subscriber buffer full, dropping messages",
					"subscriber", sub.id, "channel", channel)
			}
		}
	}
}

// PSubscribe registers a subscriber for the given channel patterns.
// Patterns use glob syntax: '*' matches any run, '?' one character.
func (h *Hub) PSubscribe(patterns ...string) *Subscriber {
	sub := &Subscriber{
		id:       uuid.New(),
		hub:      h,
		ch:       make(chan Message, h.buffer),
		patterns: patterns,
	}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.ch)
	}
	h.mu.Unlock()
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Subscriber is one pattern subscription. Messages arrive on C until
// Close.
type Subscriber struct {
	id       uuid.UUID
	hub      *Hub
	ch       chan Message
	patterns []string
	dropped  int
}

func (s *Subscriber) ID() string {
	return s.id.String()
}

func (s *Subscriber) C() <-chan Message {
	return s.ch
}

func (s *Subscriber) Close() {
	s.hub.unsubscribe(s)
}

func (s *Subscriber) match(channel string) (string, bool) {
	for _, pat := range s.patterns {
		if matchGlob(pat, channel) {
			return pat, true
		}
	}
	return "", false
}

func matchGlob(pat, s string) bool {
	for len(pat) > 0 {
		switch pat[0] {
		case '*':
			for i := len(s); i >= 0; i-- {
				if matchGlob(pat[1:], s[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(s) == 0 {
				return false
			}
		default:
			if len(s) == 0 || s[0] != pat[0] {
				return false
			}
		}
		pat, s = pat[1:], s[1:]
	}
	return len(s) == 0
}
