package auth_service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/service"
	"github.com/xjudge/xjudge/internal/store"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultSessionDuration = 24 * time.Hour
	monthSessionDuration   = 30 * 24 * time.Hour
)

func (a *AuthService) Start() {
	if a.Store == nil {
		panic("auth service expects non-nil store")
	}
	if a.JWTSecret == "" {
		panic("auth service expects a jwt secret")
	}
}

func (a *AuthService) SignUp(
	ctx context.Context,
	registration UserRegistration,
) (UserResponse, error) {
	if err := service.ValidateInput(registration); err != nil {
		return UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		err = fmt.Errorf(
			"%w, failed to hash password: %w",
			xjudge_errors.ErrInternal,
			err,
		)
		log.Error(err)
		return UserResponse{}, err
	}

	user, err := a.Store.Users.CreateUser(ctx, store.User{
		ID:             uuid.New(),
		Handle:         registration.Handle,
		Email:          registration.Email,
		HashedPassword: string(hash),
	})
	if err != nil {
		if errors.Is(err, xjudge_errors.ErrEntityAlreadyExist) {
			return UserResponse{}, fmt.Errorf(
				"%w, a user with that handle or email already exists",
				xjudge_errors.ErrEntityAlreadyExist,
			)
		}
		return UserResponse{}, err
	}

	log.WithField("handle", user.Handle).Info("created user")
	return UserResponse{ID: user.ID, Handle: user.Handle, Email: user.Email}, nil
}

// Login checks the credentials and issues a signed session token. A
// wrong handle and a wrong password are indistinguishable to the
// caller.
func (a *AuthService) Login(
	ctx context.Context,
	request UserLoginRequest,
) (UserResponse, string, time.Time, error) {
	if err := service.ValidateInput(request); err != nil {
		return UserResponse{}, "", time.Time{}, err
	}

	user, err := a.Store.Users.GetUserByHandle(ctx, request.Handle)
	if err != nil {
		if errors.Is(err, xjudge_errors.ErrNotFound) {
			return UserResponse{}, "", time.Time{}, invalidCredentials(request.Handle)
		}
		return UserResponse{}, "", time.Time{}, err
	}

	if bcrypt.CompareHashAndPassword(
		[]byte(user.HashedPassword),
		[]byte(request.Password),
	) != nil {
		return UserResponse{}, "", time.Time{}, invalidCredentials(request.Handle)
	}

	duration := defaultSessionDuration
	if request.RememberForMonth {
		duration = monthSessionDuration
	}
	expiry := time.Now().Add(duration)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		service.KeyUserID: user.ID.String(),
		service.KeyHandle: user.Handle,
		service.KeyIAt:    time.Now().Unix(),
		service.KeyExp:    expiry.Unix(),
	})
	signed, err := token.SignedString([]byte(a.JWTSecret))
	if err != nil {
		err = fmt.Errorf(
			"%w, failed to sign session token: %w",
			xjudge_errors.ErrInternal,
			err,
		)
		log.Error(err)
		return UserResponse{}, "", time.Time{}, err
	}

	log.WithField("handle", user.Handle).Info("logged in")
	return UserResponse{ID: user.ID, Handle: user.Handle, Email: user.Email}, signed, expiry, nil
}

func invalidCredentials(handle string) error {
	log.Warnf("failed login attempt for handle %s", handle)
	return fmt.Errorf(
		"%w, invalid handle or password",
		xjudge_errors.ErrUnauthenticated,
	)
}
