package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Producer вычисляет значение при промахе кэша
type Producer func(ctx context.Context) (interface{}, error)

// Store - процессный кэш с TTL на ключ. Remember не дает гарантии
// single-flight: конкурирующие вызовы для одного ключа могут выполнить
// producer дважды, побеждает последняя запись
type Store interface {
	Remember(ctx context.Context, key string, ttl time.Duration, dest interface{}, produce Producer) error
	Forget(ctx context.Context, key string) error
	ForgetPattern(ctx context.Context, pattern string) error
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// remember - общая реализация cache-aside поверх GetJSON/SetJSON.
// Ошибка producer-а пробрасывается и не кэшируется; ошибка чтения кэша
// деградирует до промаха
func remember(ctx context.Context, s Store, key string, ttl time.Duration, dest interface{}, produce Producer) error {
	found, err := s.GetJSON(ctx, key, dest)
	if err != nil {
		log.Printf("cache read failed for %s: %v", key, err)
	} else if found {
		return nil
	}

	value, err := produce(ctx)
	if err != nil {
		return err
	}

	if err := s.SetJSON(ctx, key, value, ttl); err != nil {
		log.Printf("cache write failed for %s: %v", key, err)
	}

	return assign(value, dest)
}

func assign(value, dest interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cached value: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cached value: %w", err)
	}
	return nil
}
