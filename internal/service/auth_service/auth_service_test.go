package auth_service_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/service"
	"github.com/xjudge/xjudge/internal/service/auth_service"
	"github.com/xjudge/xjudge/internal/store"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	fmt.Println("starting initializations")

	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
		PadLevelText:  false,
	})
	logrus.SetLevel(logrus.DebugLevel)

	logrus.Info("initializing service")
	service.InitializeServices()

	logrus.Info("starting tests")
	code := m.Run()

	logrus.Info("tests completed")
	os.Exit(code)
}

func newService() *auth_service.AuthService {
	a := &auth_service.AuthService{
		Store:     store.NewMemoryStore(),
		JWTSecret: testSecret,
	}
	a.Start()
	return a
}

func registration() auth_service.UserRegistration {
	return auth_service.UserRegistration{
		Handle:   "tourist",
		Email:    "tourist@example.com",
		Password: "correct horse",
	}
}

func TestSignUpAndLogin(t *testing.T) {
	a := newService()
	ctx := context.Background()

	user, err := a.SignUp(ctx, registration())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Handle != "tourist" {
		t.Errorf("unexpected handle %q", user.Handle)
	}

	loggedIn, token, expiry, err := a.Login(ctx, auth_service.UserLoginRequest{
		Handle:   "tourist",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Error("login should return the registered user")
	}
	if token == "" {
		t.Fatal("expected a session token")
	}
	if remaining := time.Until(expiry); remaining < 23*time.Hour || remaining > 25*time.Hour {
		t.Errorf("default session should last about a day, got %v", remaining)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims[service.KeyHandle] != "tourist" {
		t.Errorf("token carries handle %v", claims[service.KeyHandle])
	}
	if claims[service.KeyUserID] != user.ID.String() {
		t.Errorf("token carries user id %v", claims[service.KeyUserID])
	}
}

func TestSignUpDuplicateHandle(t *testing.T) {
	a := newService()
	ctx := context.Background()

	if _, err := a.SignUp(ctx, registration()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := registration()
	dup.Email = "other@example.com"
	if _, err := a.SignUp(ctx, dup); !errors.Is(err, xjudge_errors.ErrEntityAlreadyExist) {
		t.Errorf("expected a conflict, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	a := newService()
	ctx := context.Background()

	if _, err := a.SignUp(ctx, registration()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the error for a wrong password and an unknown handle must match
	_, _, _, badPassword := a.Login(ctx, auth_service.UserLoginRequest{
		Handle:   "tourist",
		Password: "wrong horse",
	})
	_, _, _, badHandle := a.Login(ctx, auth_service.UserLoginRequest{
		Handle:   "nobody",
		Password: "correct horse",
	})

	if !errors.Is(badPassword, xjudge_errors.ErrUnauthenticated) {
		t.Errorf("wrong password should be unauthenticated, got %v", badPassword)
	}
	if !errors.Is(badHandle, xjudge_errors.ErrUnauthenticated) {
		t.Errorf("unknown handle should be unauthenticated, got %v", badHandle)
	}
	if badPassword.Error() != badHandle.Error() {
		t.Error("failed logins must not reveal whether the handle exists")
	}
}

func TestLoginRememberForMonth(t *testing.T) {
	a := newService()
	ctx := context.Background()

	if _, err := a.SignUp(ctx, registration()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, expiry, err := a.Login(ctx, auth_service.UserLoginRequest{
		Handle:           "tourist",
		Password:         "correct horse",
		RememberForMonth: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remaining := time.Until(expiry); remaining < 29*24*time.Hour {
		t.Errorf("remembered session should last a month, got %v", remaining)
	}
}
