package kvstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"movie-storefront/pkg/utils"
)

const redisKeyPrefix = "storefront:"

// RedisStore holds each document in a redis string key and publishes a
// change message per write, giving remote instances the same advisory
// refresh signal the in-process backends get from Watch.
type RedisStore struct {
	client *redis.Client
	mu     sync.Mutex
	notify *notifier
	pubsub *redis.PubSub
	done   chan struct{}
}

func NewRedisStore(config utils.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", config.Addr, err)
	}

	s := &RedisStore{
		client: client,
		notify: newNotifier(),
		pubsub: client.Subscribe(context.Background(), redisKeyPrefix+"changes"),
		done:   make(chan struct{}),
	}
	go s.dispatch()

	return s, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if err := s.client.Publish(ctx, redisKeyPrefix+"changes", key).Err(); err != nil {
		return fmt.Errorf("publish change for %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	if err := s.client.Publish(ctx, redisKeyPrefix+"changes", key).Err(); err != nil {
		return fmt.Errorf("publish change for %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Watch(key string) (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, id := s.notify.subscribe(key)
	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.notify.unsubscribe(key, id)
	}
	return ch, cancel
}

func (s *RedisStore) Close() error {
	close(s.done)
	s.pubsub.Close()
	return s.client.Close()
}

func (s *RedisStore) dispatch() {
	ch := s.pubsub.Channel()
	for {
		select {
		case <-s.done:
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.mu.Lock()
			s.notify.notify(msg.Payload)
			s.mu.Unlock()
		}
	}
}
