package podstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/redis/go-redis/v9"
)

// RedisConfig describes the Redis connection
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	Prefix   string
}

// Redis is a CAS on a Redis server, one string key per blob
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects and pings the server
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	if cfg.Address == "" {
		return nil, errors.New("podstore: redis address is required")
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "pod2:blob:"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("podstore: connect redis: %w", err)
	}
	return &Redis{client: client, prefix: prefix}, nil
}

// NewRedisURL connects using a redis:// URL
func NewRedisURL(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("podstore: parse redis url: %w", err)
	}
	return NewRedis(ctx, RedisConfig{Address: opts.Addr, Password: opts.Password, DB: opts.DB})
}

func (r *Redis) key(id cid.Cid) string {
	return r.prefix + id.String()
}

func (r *Redis) Put(ctx context.Context, data []byte) (cid.Cid, error) {
	id, err := Sum(data)
	if err != nil {
		return cid.Undef, err
	}
	if err := r.client.SetNX(ctx, r.key(id), data, 0).Err(); err != nil {
		return cid.Undef, fmt.Errorf("podstore: redis set %s: %w", id, err)
	}
	return id, nil
}

func (r *Redis) Get(ctx context.Context, id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidCID
	}
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("podstore: redis get %s: %w", id, err)
	}
	if err := checkSum(id, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (r *Redis) Has(ctx context.Context, id cid.Cid) (bool, error) {
	if !id.Defined() {
		return false, nil
	}
	n, err := r.client.Exists(ctx, r.key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("podstore: redis exists %s: %w", id, err)
	}
	return n > 0, nil
}

// Close closes the client
func (r *Redis) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}
