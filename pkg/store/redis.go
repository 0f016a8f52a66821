package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	roomKeyPrefix = "poker:room:"
	roomIndexKey  = "poker:rooms"
)

// RedisDB stores each room as a JSON document under its own key and keeps
// an index set of room codes.
type RedisDB struct {
	client *redis.Client
}

var _ Database = (*RedisDB)(nil)

// RedisConfig holds connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisDB connects to Redis and checks the connection.
func NewRedisDB(ctx context.Context, cfg RedisConfig) (*RedisDB, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return &RedisDB{client: client}, nil
}

func roomKey(code string) string {
	return roomKeyPrefix + code
}

// CreateRoom inserts a new room.
func (r *RedisDB) CreateRoom(ctx context.Context, room *Room) error {
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now()
	}
	room.UpdatedAt = room.CreatedAt
	room.Version = 1
	b, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("failed to encode room: %w", err)
	}

	ok, err := r.client.SetNX(ctx, roomKey(room.Code), b, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	if !ok {
		return ErrExists
	}
	if err := r.client.SAdd(ctx, roomIndexKey, room.Code).Err(); err != nil {
		return fmt.Errorf("failed to index room: %w", err)
	}
	log.Debugf("created room %s", room.Code)
	return nil
}

func decodeRoom(b []byte) (*Room, error) {
	var room Room
	if err := json.Unmarshal(b, &room); err != nil {
		return nil, fmt.Errorf("failed to decode room: %w", err)
	}
	return &room, nil
}

// GetRoom loads a room by code.
func (r *RedisDB) GetRoom(ctx context.Context, code string) (*Room, error) {
	b, err := r.client.Get(ctx, roomKey(code)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRoom(b)
}

// UpdateRoom writes room inside a WATCH/MULTI transaction so a concurrent
// writer makes this one fail with ErrConflict.
func (r *RedisDB) UpdateRoom(ctx context.Context, room *Room) error {
	key := roomKey(room.Code)
	next := *room
	next.Version = room.Version + 1
	if next.UpdatedAt.IsZero() {
		next.UpdatedAt = time.Now()
	}

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		b, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		current, err := decodeRoom(b)
		if err != nil {
			return err
		}
		if current.Version != room.Version {
			return ErrConflict
		}

		encoded, err := json.Marshal(&next)
		if err != nil {
			return fmt.Errorf("failed to encode room: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, 0)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	if err != nil {
		return err
	}
	room.Version = next.Version
	room.UpdatedAt = next.UpdatedAt
	return nil
}

// ListRooms returns every indexed room ordered by code.
func (r *RedisDB) ListRooms(ctx context.Context) ([]*Room, error) {
	codes, err := r.client.SMembers(ctx, roomIndexKey).Result()
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, nil
	}
	sort.Strings(codes)

	keys := make([]string, len(codes))
	for i, c := range codes {
		keys[i] = roomKey(c)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	rooms := make([]*Room, 0, len(vals))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			// Index entry without a document; drop it.
			log.Warnf("room %s is indexed but missing", codes[i])
			r.client.SRem(ctx, roomIndexKey, codes[i])
			continue
		}
		room, err := decodeRoom([]byte(s))
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// DeleteRoom removes a room.
func (r *RedisDB) DeleteRoom(ctx context.Context, code string) error {
	n, err := r.client.Del(ctx, roomKey(code)).Result()
	if err != nil {
		return err
	}
	r.client.SRem(ctx, roomIndexKey, code)
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the client.
func (r *RedisDB) Close() error {
	return r.client.Close()
}
