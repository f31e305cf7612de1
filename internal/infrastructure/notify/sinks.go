package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-sedes/internal/application/ports"
	"github.com/jhoicas/inventario-sedes/pkg/config"
)

// LogSink escribe cada evento en el log estructurado.
type LogSink struct {
	log zerolog.Logger
}

// NewLogSink construye el destino de log.
func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Publish(_ context.Context, ev ports.Event) error {
	e := s.log.Info().Str("event", string(ev.Type)).Time("occurred_at", ev.OccurredAt)
	for k, v := range ev.EntityIDs {
		e = e.Str(k, v)
	}
	e.Msg("evento")
	return nil
}

// RedisSink publica cada evento como JSON en un canal pub/sub.
type RedisSink struct {
	client  *redis.Client
	channel string
}

// NewRedisSink construye el destino Redis sobre un cliente existente.
func NewRedisSink(client *redis.Client, channel string) *RedisSink {
	return &RedisSink{client: client, channel: channel}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Publish(ctx context.Context, ev ports.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return s.client.Publish(ctx, s.channel, payload).Err()
}

// NewRedisClient crea el cliente desde REDIS_URL o host/port y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
