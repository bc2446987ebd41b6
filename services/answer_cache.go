package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const answerKeyPrefix = "ask:"

type AnswerCache struct {
	client *redis.Client
	ttl    time.Duration
}

type answerEntry struct {
	Answer   string    `json:"answer"`
	CachedAt time.Time `json:"cached_at"`
}

// NewAnswerCache connects to redis at redisURL. Answers expire after ttl.
func NewAnswerCache(redisURL string, ttl time.Duration) (*AnswerCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &AnswerCache{client: client, ttl: ttl}, nil
}

// Get returns the cached answer for key. A miss is not an error.
func (ac *AnswerCache) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := ac.client.Get(ctx, answerKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get answer from cache: %v", err)
	}

	var entry answerEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return "", false, fmt.Errorf("failed to unmarshal answer: %v", err)
	}
	return entry.Answer, true, nil
}

func (ac *AnswerCache) Set(ctx context.Context, key, answer string) error {
	data, err := json.Marshal(answerEntry{Answer: answer, CachedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %v", err)
	}

	if err := ac.client.Set(ctx, answerKeyPrefix+key, data, ac.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache answer: %v", err)
	}
	return nil
}

func (ac *AnswerCache) Ping(ctx context.Context) error {
	return ac.client.Ping(ctx).Err()
}

func (ac *AnswerCache) Close() error {
	return ac.client.Close()
}
