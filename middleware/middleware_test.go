package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/service"
	"github.com/xjudge/xjudge/middleware"
)

const testSecret = "middleware-test-secret"

func TestMain(m *testing.M) {
	fmt.Println("starting initializations")

	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
		PadLevelText:  false,
	})
	logrus.SetLevel(logrus.DebugLevel)

	logrus.Info("starting tests")
	code := m.Run()

	logrus.Info("tests completed")
	os.Exit(code)
}

func signToken(t *testing.T, secret string, userID uuid.UUID, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		service.KeyUserID: userID.String(),
		service.KeyHandle: "tourist",
		service.KeyIAt:    time.Now().Unix(),
		service.KeyExp:    expiry.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("cannot sign token: %v", err)
	}
	return signed
}

func requestWithSession(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{
			Name:  middleware.KeyJwtSessionCookieName,
			Value: token,
		})
	}
	return r
}

func TestJWTMiddlewareInstallsClaims(t *testing.T) {
	t.Setenv(service.KeyJWTSecret, testSecret)
	userID := uuid.New()

	var got service.UserCredentialClaims
	handler := middleware.JWTMiddleware(func(w http.ResponseWriter, r *http.Request) {
		claims, err := service.GetClaimsFromContext(r.Context())
		if err != nil {
			t.Errorf("handler got no claims: %v", err)
		}
		got = claims
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	handler(rec, requestWithSession(signToken(t, testSecret, userID, time.Now().Add(time.Hour))))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.UserID != userID {
		t.Errorf("expected user id %v, got %v", userID, got.UserID)
	}
	if got.Handle != "tourist" {
		t.Errorf("expected handle tourist, got %q", got.Handle)
	}
}

func TestJWTMiddlewareRejectsBadSessions(t *testing.T) {
	t.Setenv(service.KeyJWTSecret, testSecret)
	userID := uuid.New()

	cases := []struct {
		name  string
		token string
	}{
		{name: "missing cookie", token: ""},
		{name: "garbage token", token: "not-a-jwt"},
		{
			name:  "wrong secret",
			token: signToken(t, "another-secret", userID, time.Now().Add(time.Hour)),
		},
		{
			name:  "expired token",
			token: signToken(t, testSecret, userID, time.Now().Add(-time.Minute)),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := middleware.JWTMiddleware(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler must not run for a bad session")
			})

			rec := httptest.NewRecorder()
			handler(rec, requestWithSession(tc.token))

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}
