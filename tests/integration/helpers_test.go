package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	adaptershttp "github.com/iho/bankbook/internal/adapter/http"
	"github.com/iho/bankbook/internal/adapter/http/handler"
	postgresrepo "github.com/iho/bankbook/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/bankbook/internal/adapter/repository/redis"
	"github.com/iho/bankbook/internal/domain"
	"github.com/iho/bankbook/internal/infrastructure/auth"
	"github.com/iho/bankbook/internal/usecase"
	"github.com/iho/bankbook/tests/testutil"
)

type testServer struct {
	DB     *testutil.TestDB
	Router http.Handler
	JWT    *auth.JWTManager
}

// newTestServer wires the full HTTP stack against a real database and an
// in-process redis.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	pool := testDB.Pool
	txManager := postgresrepo.NewTxManager(pool)
	userRepo := postgresrepo.NewUserRepository(pool)
	accountRepo := postgresrepo.NewAccountRepository(pool)
	txnRepo := postgresrepo.NewTransactionRepository(pool)
	cache := redisrepo.NewCache(redisClient)
	idempotencyStore := redisrepo.NewIdempotencyStore(redisClient)
	idGen := postgresrepo.NewULIDGenerator()
	retrier := postgresrepo.NewRetrier()

	jwtManager := auth.NewJWTManager("integration-test-secret", time.Hour)
	hasher := auth.NewBcryptHasher(4)

	userUC := usecase.NewUserUseCase(userRepo, hasher, idGen, cache)
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, txnRepo, idGen)
	txnUC := usecase.NewTransactionUseCase(txManager, accountUC, txnRepo, idGen, retrier)
	transferUC := usecase.NewTransferUseCase(txnUC)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		AuthHandler:        handler.NewAuthHandler(userUC, jwtManager, nil),
		AccountHandler:     handler.NewAccountHandler(accountUC, nil),
		TransactionHandler: handler.NewTransactionHandler(txnUC, nil),
		TransferHandler:    handler.NewTransferHandler(transferUC, nil),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		JWTManager:         jwtManager,
		IdempotencyStore:   idempotencyStore,
		Logger:             zerolog.Nop(),
	})

	return &testServer{
		DB:     testDB,
		Router: router,
		JWT:    jwtManager,
	}
}

// tokenFor issues a token for a fixture user.
func (s *testServer) tokenFor(t *testing.T, user *domain.User) string {
	t.Helper()

	token, err := s.JWT.Generate(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

// do performs a request against the test server.
func (s *testServer) do(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	return s.doWithHeaders(t, method, path, token, payload, nil)
}

func (s *testServer) doWithHeaders(t *testing.T, method, path, token string, payload any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}
