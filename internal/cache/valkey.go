package cache

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ValkeyClient caches auth lookups and the station list. Every method is a
// best-effort accelerator; callers must fall back to Postgres on error.
type ValkeyClient struct {
	client       *redis.Client
	usersHashKey string
	stationsKey  string
	stationsTTL  time.Duration
}

func NewValkeyClient() (*ValkeyClient, error) {
	addr := os.Getenv("VALKEY_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	password := os.Getenv("VALKEY_PASSWORD")
	usersHashKey := os.Getenv("VALKEY_USERS_HASH_KEY")
	if usersHashKey == "" {
		usersHashKey = "users:auth"
	}

	stationsTTL := 30 * time.Second
	if v := os.Getenv("VALKEY_STATIONS_TTL_SEC"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			stationsTTL = time.Duration(sec) * time.Second
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{
		client:       rdb,
		usersHashKey: usersHashKey,
		stationsKey:  "stations:list",
		stationsTTL:  stationsTTL,
	}, nil
}

func (v *ValkeyClient) GetUserIDByAuth(ctx context.Context, email, passwordHash string) (int64, error) {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))

	userIDStr, err := v.client.HGet(ctx, v.usersHashKey, cacheKey).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, fmt.Errorf("user not found in cache")
		}
		return 0, fmt.Errorf("cache lookup error: %w", err)
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID in cache: %w", err)
	}

	return userID, nil
}

func (v *ValkeyClient) SetUserAuth(ctx context.Context, email, passwordHash string, userID int64) error {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))

	return v.client.HSet(ctx, v.usersHashKey, cacheKey, strconv.FormatInt(userID, 10)).Err()
}

// GetStationsList returns the cached station list payload, or redis.Nil
// wrapped when the entry is absent.
func (v *ValkeyClient) GetStationsList(ctx context.Context) ([]byte, error) {
	data, err := v.client.Get(ctx, v.stationsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("stations list not cached")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return data, nil
}

func (v *ValkeyClient) SetStationsList(ctx context.Context, payload []byte) error {
	return v.client.Set(ctx, v.stationsKey, payload, v.stationsTTL).Err()
}

// InvalidateStationsList drops the cached list after a station write.
func (v *ValkeyClient) InvalidateStationsList(ctx context.Context) error {
	return v.client.Del(ctx, v.stationsKey).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
