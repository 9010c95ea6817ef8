package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gamma-omg/lexi-explore/internal/pkg/router"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedRouter(key []byte) *router.Router {
	r := router.New()
	r.Use(Auth(key))

	r.HandleFunc("/protected", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, UserIDFromContext(r.Context()))
	})

	return r
}

func sign(t *testing.T, key []byte, claims jwt.Claims) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestAuth_WithoutToken(t *testing.T) {
	r := protectedRouter([]byte("test-api-key"))

	req := httptest.NewRequest("GET", "/protected", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
}

func TestAuth_InvalidToken(t *testing.T) {
	slog.SetDefault(slog.New(slog.DiscardHandler))
	r := protectedRouter([]byte("test-api-key"))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_WrongKey(t *testing.T) {
	slog.SetDefault(slog.New(slog.DiscardHandler))
	r := protectedRouter([]byte("test-api-key"))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, []byte("other-key"), jwt.RegisteredClaims{Subject: "user-123"}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_Expired(t *testing.T) {
	slog.SetDefault(slog.New(slog.DiscardHandler))
	key := []byte("test-api-key")
	r := protectedRouter(key)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, key, jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ValidToken(t *testing.T) {
	tbl := []struct {
		name   string
		header func(string) string
	}{
		{"bearer", func(tok string) string { return "Bearer " + tok }},
		{"lowercase bearer", func(tok string) string { return "bearer " + tok }},
		{"raw", func(tok string) string { return tok }},
	}

	key := []byte("test-api-key")
	signed := sign(t, key, jwt.RegisteredClaims{Subject: "user-123"})

	for _, c := range tbl {
		t.Run(c.name, func(t *testing.T) {
			r := protectedRouter(key)

			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set("Authorization", c.header(signed))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "user-123\n", rec.Body.String())
		})
	}
}

func TestAuth_ValidToken_NoUser(t *testing.T) {
	key := []byte("test-api-key")
	r := protectedRouter(key)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, key, jwt.MapClaims{}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
