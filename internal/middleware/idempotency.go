package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"employee_roster/internal/domain"
	"employee_roster/internal/utils/access"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	IdempotencyKeyHeader      = "Idempotency-Key"
	IdempotentReplayedHeader  = "Idempotent-Replayed"
	idempotencyKeyPrefix      = "idempotency:"
	defaultIdempotencyTTL     = 24 * time.Hour
	maxCachedResponseBodySize = 1 << 20

	CodeIdempotencyKeyReused = "IDEMPOTENCY_KEY_REUSED"
)

// RedisCache replays responses of requests that carry an Idempotency-Key.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &RedisCache{client: client, ttl: ttl, log: log}
}

func (c *RedisCache) GetBytes(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	} else if err != nil {
		c.log.Error("Redis get error", zap.Error(err))
		return nil, false
	}
	return val, true
}

func (c *RedisCache) SetBytes(ctx context.Context, key string, value []byte) {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.log.Error("Redis set error", zap.Error(err))
	}
}

// Idempotency replays successful mutation responses per caller and key. It
// must run after the identity middleware so keys are scoped to the caller.
// A key reused with a different request body is rejected.
func (c *RedisCache) Idempotency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" || r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()
		identity := access.FromContext(ctx)
		if _, ok := identity.(domain.Authenticated); !ok {
			next.ServeHTTP(w, r)
			return
		}

		raw, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(raw))
		if !isMutation(raw) {
			next.ServeHTTP(w, r)
			return
		}

		sum := sha256.Sum256(raw)
		requestHash := hex.EncodeToString(sum[:])
		cacheKey := idempotencyKeyPrefix + access.Subject(identity) + ":" + key

		c.log.Debug("Get idempotency key", zap.String("key", key))

		if cached, ok := c.GetBytes(ctx, cacheKey); ok {
			var entry cachedResponse
			if err := json.Unmarshal(cached, &entry); err == nil {
				if entry.RequestHash != requestHash {
					c.log.Warn("Idempotency key reused with a different request", zap.String("key", key))
					writeKeyReused(w)
					return
				}
				c.log.Info("Returning cached response", zap.String("key", key))
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set(IdempotentReplayedHeader, "true")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(entry.Response)
				return
			}
			c.log.Error("Corrupt idempotency entry", zap.String("key", key))
		}

		var body bytes.Buffer
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Tee(&body)
		next.ServeHTTP(ww, r)

		if ww.Status() != http.StatusOK || body.Len() > maxCachedResponseBodySize || hasGraphQLErrors(body.Bytes()) {
			return
		}
		entry, err := json.Marshal(cachedResponse{RequestHash: requestHash, Response: body.Bytes()})
		if err != nil {
			c.log.Error("Failed to encode idempotency entry", zap.Error(err))
			return
		}
		c.SetBytes(ctx, cacheKey, entry)
		c.log.Info("Successfully set idempotency data by key", zap.String("key", key))
	})
}

type cachedResponse struct {
	RequestHash string `json:"request_hash"`
	Response    []byte `json:"response"`
}

func writeKeyReused(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"errors": []map[string]interface{}{{
			"message":    "Idempotency-Key was already used for a different request",
			"extensions": map[string]string{"code": CodeIdempotencyKeyReused},
		}},
	})
}

// isMutation reports whether the GraphQL document in body starts with a
// mutation operation.
func isMutation(body []byte) bool {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return false
	}
	doc := req.Query
	for {
		doc = strings.TrimLeft(doc, " \t\r\n,\ufeff")
		if !strings.HasPrefix(doc, "#") {
			break
		}
		if i := strings.IndexByte(doc, '\n'); i >= 0 {
			doc = doc[i+1:]
		} else {
			doc = ""
		}
	}
	if !strings.HasPrefix(doc, "mutation") {
		return false
	}
	rest := doc[len("mutation"):]
	return rest == "" || strings.ContainsAny(rest[:1], " \t\r\n({@")
}

func hasGraphQLErrors(body []byte) bool {
	var resp struct {
		Errors []json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return true
	}
	return len(resp.Errors) > 0
}
