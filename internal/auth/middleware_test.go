package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixfunds/finance-api/internal/httputil"
	"github.com/nixfunds/finance-api/internal/logging"
)

func TestRequireAuth(t *testing.T) {
	tokens, err := NewJWTService([]byte("secret"))
	require.NoError(t, err)
	mw := NewMiddleware(tokens)

	userID := uuid.New()
	valid, err := tokens.CreateToken(userID, "alice@example.com", time.Hour)
	require.NoError(t, err)
	expired, err := tokens.CreateToken(userID, "alice@example.com", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + valid, wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + valid, wantStatus: http.StatusUnauthorized},
		{name: "no token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got, ok := GetUserIDFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, userID, got)
				email, _ := GetUserEmailFromContext(r.Context())
				assert.Equal(t, "alice@example.com", email)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			mw.RequireAuth(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, called)

			if tt.wantStatus == http.StatusUnauthorized {
				var body httputil.ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.NotEmpty(t, body.Message)
				assert.Equal(t, "UNAUTHORIZED", body.Code)
			}
		})
	}
}

func TestRequireAuth_UserIDInRequestLog(t *testing.T) {
	tokens, err := NewJWTService([]byte("secret"))
	require.NoError(t, err)

	userID := uuid.New()
	token, err := tokens.CreateToken(userID, "alice@example.com", time.Hour)
	require.NoError(t, err)

	var buf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.GetLoggerFromContext(r.Context()).Info("listing")
		w.WriteHeader(http.StatusOK)
	})
	h := logging.RequestLogger(logging.NewWithWriter(&buf, "info", "json"))(NewMiddleware(tokens).RequireAuth(next))

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		assert.Equal(t, userID.String(), entry["user_id"], entry["msg"])
	}
}
