package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	pkgauth "github.com/afigueroa/mailprov-backend/pkg/auth"
	"github.com/afigueroa/mailprov-backend/pkg/config"
	"github.com/afigueroa/mailprov-backend/pkg/enums"
)

var authTestJWT = config.JWTConfig{Secret: "test-secret", Issuer: "mailprov-auth"}

type stubSessions struct {
	live bool
}

func (s stubSessions) HasSession(ctx context.Context, sessionID string) (bool, error) {
	return s.live, nil
}

func mintAuthToken(t *testing.T, sessionID string) string {
	t.Helper()
	claims := &pkgauth.Claims{
		UserID:    "user-1",
		Email:     "ada@example.com",
		Role:      enums.RoleAdmin,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    authTestJWT.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(authTestJWT.Secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func authRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuthSeedsContext(t *testing.T) {
	var seenUserID string
	var seenRole enums.UserRole
	handler := Auth(authTestJWT, stubSessions{live: true}, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserIDFromContext(r.Context())
		seenRole = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authRequest(mintAuthToken(t, "sess-1")))

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d: %s", resp.Code, resp.Body.String())
	}
	if seenUserID != "user-1" || seenRole != enums.RoleAdmin {
		t.Fatalf("context not seeded: user=%q role=%q", seenUserID, seenRole)
	}
}

func TestAuthRejections(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	cases := []struct {
		name    string
		token   string
		live    bool
	}{
		{"missing header", "", true},
		{"garbage token", "garbage", true},
		{"missing session id", mintAuthToken(t, ""), true},
		{"dead session", mintAuthToken(t, "sess-1"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := Auth(authTestJWT, stubSessions{live: tc.live}, testLogger())(next)
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, authRequest(tc.token))
			if resp.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401 got %d", resp.Code)
			}
		})
	}
}
