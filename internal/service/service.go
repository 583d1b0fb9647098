package service

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

type contextKey string

const (
	KeyJWTSecret                    = "JWT_SECRET"
	KeyHandle                       = "handle"
	KeyUserID                       = "user_id"
	KeyExp                          = "exp"
	KeyIAt                          = "iat"
	KeyCtxUserCredClaims contextKey = "UserCredClaims"
)

// UserCredentialClaims is the authenticated principal the middleware
// stashes in the request context.
type UserCredentialClaims struct {
	UserID uuid.UUID
	Handle string
	Expiry time.Time
}

var (
	validate *validator.Validate
)

func InitializeServices() {
	validate = initValidator() // used for validating struct fields
}

func initValidator() *validator.Validate {
	log.Info("initializing validator")
	validate := validator.New(validator.WithRequiredStructEnabled())

	// This makes error.Field() return "problem_code" instead of "ProblemCode"
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

func GetClaimsFromContext(
	ctx context.Context,
) (claims UserCredentialClaims, err error) {
	claimsValue := ctx.Value(KeyCtxUserCredClaims)
	if claimsValue == nil {
		return claims, xjudge_errors.ErrUnauthenticated
	}
	claims, ok := claimsValue.(UserCredentialClaims)
	if !ok {
		err = fmt.Errorf(
			"%w, unable to parse claims to service.UserCredentialClaims, type of claims found is %T",
			xjudge_errors.ErrInternal,
			reflect.TypeOf(claimsValue),
		)
		log.Error(err)
	}
	return
}

// ContextWithClaims installs a principal on the context. Used by the
// middleware and by tests.
func ContextWithClaims(ctx context.Context, claims UserCredentialClaims) context.Context {
	return context.WithValue(ctx, KeyCtxUserCredClaims, claims)
}
