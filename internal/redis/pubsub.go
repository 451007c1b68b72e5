package redisx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// BusPubSub broadcasts seat-inventory changes so other admin console
// instances can drop their cached seat maps.
type BusPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewBusPubSub(rdb *redis.Client) *BusPubSub {
	return &BusPubSub{
		rdb:     rdb,
		channel: ChannelBusesChanged(),
	}
}

type busChangedMsg struct {
	Type   string `json:"type"`
	BusID  string `json:"bus_id"`
	TsUnix int64  `json:"ts_unix"`
}

func (p *BusPubSub) PublishBusChanged(ctx context.Context, busID string) error {
	msg := busChangedMsg{
		Type:   "bus_changed",
		BusID:  busID,
		TsUnix: time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *BusPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, busID string)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev busChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil && ev.BusID != "" {
				handler(ctx, ev.BusID)
			}
		}
	}
}
