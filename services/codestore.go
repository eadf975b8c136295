package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CodeStore holds one pending verification code per username.
type CodeStore interface {
	// Put stores code for username, replacing any unconsumed one.
	Put(ctx context.Context, username, code string, ttl time.Duration) error
	// Consume deletes and reports true only when code matches an unexpired entry.
	Consume(ctx context.Context, username, code string) (bool, error)
	Delete(ctx context.Context, username string) error
}

// GenerateCode returns a uniformly random 6-digit code (100000–999999).
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func codesEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

type codeEntry struct {
	code      string
	expiresAt time.Time
}

// MemoryCodeStore keeps codes in process memory. It is not shared between
// instances; running more than one replica requires RedisCodeStore.
type MemoryCodeStore struct {
	mu    sync.Mutex
	codes map[string]codeEntry
	Now   func() time.Time
}

func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{codes: map[string]codeEntry{}, Now: time.Now}
}

func (m *MemoryCodeStore) Put(_ context.Context, username, code string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now()
	for k, e := range m.codes {
		if !now.Before(e.expiresAt) {
			delete(m.codes, k)
		}
	}
	m.codes[username] = codeEntry{code: code, expiresAt: now.Add(ttl)}
	return nil
}

func (m *MemoryCodeStore) Consume(_ context.Context, username, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.codes[username]
	if !ok {
		return false, nil
	}
	if !m.Now().Before(e.expiresAt) {
		delete(m.codes, username)
		return false, nil
	}
	if !codesEqual(e.code, code) {
		return false, nil
	}
	delete(m.codes, username)
	return true, nil
}

func (m *MemoryCodeStore) Delete(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.codes, username)
	return nil
}

// Len is the number of codes currently held, expired or not.
func (m *MemoryCodeStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.codes)
}

// consumeScript deletes the key only if it still holds the submitted code.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisCodeStore keeps codes in Redis so every API replica sees the same
// codes. Expiry is handled by Redis key TTLs.
type RedisCodeStore struct {
	Client *redis.Client
	Prefix string
}

func NewRedisCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{Client: client, Prefix: "verification_code:"}
}

// NewRedisClient connects and pings Redis.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func (r *RedisCodeStore) key(username string) string {
	return r.Prefix + username
}

func (r *RedisCodeStore) Put(ctx context.Context, username, code string, ttl time.Duration) error {
	if err := r.Client.Set(ctx, r.key(username), code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	return nil
}

func (r *RedisCodeStore) Consume(ctx context.Context, username, code string) (bool, error) {
	n, err := consumeScript.Run(ctx, r.Client, []string{r.key(username)}, code).Int()
	if err != nil {
		return false, fmt.Errorf("failed to consume verification code: %w", err)
	}
	return n == 1, nil
}

func (r *RedisCodeStore) Delete(ctx context.Context, username string) error {
	return r.Client.Del(ctx, r.key(username)).Err()
}
