package compiler_service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/store"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

const compilerCacheSize = 256

// CompilerService maps judge-specific compiler id values (the value the
// judge's submit form expects) to stored compiler rows. Rows change
// rarely, so lookups sit behind a small lru cache.
type CompilerService struct {
	Store *store.Store

	cache *lru.Cache[string, store.Compiler]
}

func New(s *store.Store) *CompilerService {
	if s == nil {
		panic("compiler service expects non-nil store")
	}
	cache, err := lru.New[string, store.Compiler](compilerCacheSize)
	if err != nil {
		panic("cannot create compiler cache: " + err.Error())
	}
	return &CompilerService{Store: s, cache: cache}
}

// GetCompilerByIDValue rejects unknown id values as a bad request: the
// client chose the compiler, a missing row is their input error.
func (c *CompilerService) GetCompilerByIDValue(
	ctx context.Context,
	idValue string,
) (store.Compiler, error) {
	idValue = strings.TrimSpace(idValue)
	if idValue == "" {
		return store.Compiler{}, fmt.Errorf(
			"%w, compiler id value must not be empty",
			xjudge_errors.ErrInvalidRequest,
		)
	}

	if compiler, ok := c.cache.Get(idValue); ok {
		return compiler, nil
	}

	compiler, err := c.Store.Compilers.GetCompilerByIDValue(ctx, idValue)
	if err != nil {
		if errors.Is(err, xjudge_errors.ErrNotFound) {
			return store.Compiler{}, fmt.Errorf(
				"%w, no compiler with id value %q",
				xjudge_errors.ErrInvalidRequest,
				idValue,
			)
		}
		return store.Compiler{}, err
	}

	c.cache.Add(idValue, compiler)
	return compiler, nil
}

func (c *CompilerService) ListCompilersByJudge(
	ctx context.Context,
	judge store.JudgeType,
) ([]store.Compiler, error) {
	if !judge.Valid() {
		return nil, fmt.Errorf(
			"%w, unknown judge %q",
			xjudge_errors.ErrInvalidRequest,
			judge,
		)
	}
	return c.Store.Compilers.ListCompilersByJudge(ctx, judge)
}

// CreateCompiler registers a compiler row for a judge. The cache is not
// touched; a fresh row is picked up on its first lookup miss.
func (c *CompilerService) CreateCompiler(
	ctx context.Context,
	compiler store.Compiler,
) (store.Compiler, error) {
	if !compiler.Judge.Valid() {
		return store.Compiler{}, fmt.Errorf(
			"%w, unknown judge %q",
			xjudge_errors.ErrInvalidRequest,
			compiler.Judge,
		)
	}
	if compiler.IDValue == "" || compiler.Name == "" {
		return store.Compiler{}, fmt.Errorf(
			"%w, compiler id value and name must not be empty",
			xjudge_errors.ErrInvalidRequest,
		)
	}

	created, err := c.Store.Compilers.CreateCompiler(ctx, compiler)
	if err != nil {
		return store.Compiler{}, err
	}
	log.WithField("from", "compiler-service").Infof(
		"registered compiler %s (%s) for %s",
		created.Name, created.IDValue, created.Judge,
	)
	return created, nil
}
