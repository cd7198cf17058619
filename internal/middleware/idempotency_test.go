package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"employee_roster/internal/domain"
	"employee_roster/internal/utils/access"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	addEve = `{"query":"mutation { addEmployee(name: \"Eve\", age: 30, subjects: []) { id } }"}`
	addBob = `{"query":"mutation { addEmployee(name: \"Bob\", age: 41, subjects: []) { id } }"}`
	listQ  = `{"query":"{ employees { id } }"}`
)

var (
	alice = domain.Authenticated{Claims: domain.Claims{AccountID: "a-1", Username: "alice", Role: domain.ADMIN}}
	bob   = domain.Authenticated{Claims: domain.Claims{AccountID: "b-2", Username: "bob", Role: domain.ADMIN}}
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, time.Hour, zaptest.NewLogger(t)), mr
}

// countingHandler answers with a body that changes on every call and echoes
// the request body it received.
func countingHandler(calls *int32, template string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		reqBody, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		body := strings.ReplaceAll(template, "$n", strconv.Itoa(int(n)))
		body = strings.ReplaceAll(body, "$len", strconv.Itoa(len(reqBody)))
		_, _ = io.WriteString(w, body)
	})
}

func post(t *testing.T, h http.Handler, key, body string, identity domain.Identity) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	if identity != nil {
		req = req.WithContext(access.WithIdentity(req.Context(), identity))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIdempotencyReplaysSuccessfulMutation(t *testing.T) {
	cache, mr := newTestCache(t)
	var calls int32
	h := cache.Idempotency(countingHandler(&calls, `{"data":{"n":$n,"len":$len}}`))

	first := post(t, h, "k1", addEve, alice)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get(IdempotentReplayedHeader))
	assert.JSONEq(t, `{"data":{"n":1,"len":`+strconv.Itoa(len(addEve))+`}}`, first.Body.String())

	second := post(t, h, "k1", addEve, alice)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get(IdempotentReplayedHeader))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	assert.Equal(t, time.Hour, mr.TTL(idempotencyKeyPrefix+"a-1:k1"))
}

func TestIdempotencyRejectsKeyReusedWithDifferentBody(t *testing.T) {
	cache, _ := newTestCache(t)
	var calls int32
	h := cache.Idempotency(countingHandler(&calls, `{"data":{"n":$n}}`))

	post(t, h, "k1", addEve, alice)
	rec := post(t, h, "k1", addBob, alice)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, rec.Header().Get(IdempotentReplayedHeader))
	assert.NotContains(t, rec.Body.String(), `"data"`)
	var resp struct {
		Errors []struct {
			Extensions map[string]string `json:"extensions"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, CodeIdempotencyKeyReused, resp.Errors[0].Extensions["code"])
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIdempotencyIsScopedByCaller(t *testing.T) {
	cache, _ := newTestCache(t)
	var calls int32
	h := cache.Idempotency(countingHandler(&calls, `{"data":{"n":$n}}`))

	post(t, h, "shared", addEve, alice)
	rec := post(t, h, "shared", addEve, bob)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(IdempotentReplayedHeader))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestIdempotencyIgnoresAnonymousCallers(t *testing.T) {
	cache, mr := newTestCache(t)
	var calls int32
	h := cache.Idempotency(countingHandler(&calls, `{"data":{"login":{"token":"t$n"}}}`))
	login := `{"query":"mutation { login(username: \"alice\", password: \"pw\") { token } }"}`

	post(t, h, "k1", login, nil)
	rec := post(t, h, "k1", login, domain.Anonymous{})

	assert.Empty(t, rec.Header().Get(IdempotentReplayedHeader))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Empty(t, mr.Keys())
}

func TestIdempotencyIgnoresQueries(t *testing.T) {
	cache, mr := newTestCache(t)
	var calls int32
	h := cache.Idempotency(countingHandler(&calls, `{"data":{"n":$n}}`))

	post(t, h, "k1", listQ, alice)
	rec := post(t, h, "k1", listQ, alice)

	assert.Equal(t, `{"data":{"n":2}}`, rec.Body.String())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Empty(t, mr.Keys())
}

func TestIdempotencySkipsErroredResponses(t *testing.T) {
	cache, mr := newTestCache(t)
	var calls int32
	h := cache.Idempotency(countingHandler(&calls, `{"errors":[{"message":"boom"}],"data":null}`))

	post(t, h, "k2", addEve, alice)
	post(t, h, "k2", addEve, alice)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.False(t, mr.Exists(idempotencyKeyPrefix+"a-1:k2"))
}

func TestIdempotencyPassesThroughWithoutKey(t *testing.T) {
	cache, mr := newTestCache(t)
	var calls int32
	h := cache.Idempotency(countingHandler(&calls, `{"data":{}}`))

	post(t, h, "", addEve, alice)
	post(t, h, "", addEve, alice)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Empty(t, mr.Keys())
}

func TestIdempotencyFallsThroughWhenRedisIsDown(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()
	var calls int32
	h := cache.Idempotency(countingHandler(&calls, `{"data":{}}`))

	rec := post(t, h, "k3", addEve, alice)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIsMutation(t *testing.T) {
	cases := map[string]bool{
		`{"query":"mutation { deleteEmployee(id: \"1\") }"}`:          true,
		`{"query":"mutation Add($n: String!) { addEmployee }"}`:        true,
		`{"query":"  # comment\n mutation{ deleteEmployee(id: 1) }"}`: true,
		`{"query":"{ employees { id } }"}`:                             false,
		`{"query":"query { employee(id: \"1\") { id } }"}`:             false,
		`{"query":"mutationX { a }"}`:                                  false,
		`not json`:                                                     false,
	}
	for body, want := range cases {
		assert.Equal(t, want, isMutation([]byte(body)), body)
	}
}
