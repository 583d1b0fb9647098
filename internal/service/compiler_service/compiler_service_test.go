package compiler_service_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/service"
	"github.com/xjudge/xjudge/internal/service/compiler_service"
	"github.com/xjudge/xjudge/internal/store"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

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

func TestGetCompilerByIDValue(t *testing.T) {
	st := store.NewMemoryStore()
	c := compiler_service.New(st)
	ctx := context.Background()

	seeded, err := c.CreateCompiler(ctx, store.Compiler{
		IDValue: "5001",
		Name:    "C++ 20 (gcc 12.2)",
		Judge:   store.JudgeAtCoder,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := c.GetCompilerByIDValue(ctx, "5001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ID != seeded.ID || found.Name != seeded.Name {
		t.Errorf("unexpected compiler %+v", found)
	}

	if _, err := c.GetCompilerByIDValue(ctx, "9999"); !errors.Is(err, xjudge_errors.ErrInvalidRequest) {
		t.Errorf("an unknown id value is the client's error, got %v", err)
	}
	if _, err := c.GetCompilerByIDValue(ctx, "  "); !errors.Is(err, xjudge_errors.ErrInvalidRequest) {
		t.Errorf("a blank id value is the client's error, got %v", err)
	}
}

func TestListCompilersByJudge(t *testing.T) {
	st := store.NewMemoryStore()
	c := compiler_service.New(st)
	ctx := context.Background()

	for _, compiler := range []store.Compiler{
		{IDValue: "5001", Name: "C++ 20 (gcc 12.2)", Judge: store.JudgeAtCoder},
		{IDValue: "5078", Name: "Python (CPython 3.11.4)", Judge: store.JudgeAtCoder},
		{IDValue: "44", Name: "C++14 (gcc 8.3)", Judge: store.JudgeSpoj},
	} {
		if _, err := c.CreateCompiler(ctx, compiler); err != nil {
			t.Fatalf("cannot seed compiler: %v", err)
		}
	}

	atcoder, err := c.ListCompilersByJudge(ctx, store.JudgeAtCoder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(atcoder) != 2 {
		t.Errorf("expected 2 atcoder compilers, got %d", len(atcoder))
	}

	if _, err := c.ListCompilersByJudge(ctx, "uva"); !errors.Is(err, xjudge_errors.ErrInvalidRequest) {
		t.Errorf("an unknown judge should be rejected, got %v", err)
	}
}

func TestCreateCompilerValidation(t *testing.T) {
	c := compiler_service.New(store.NewMemoryStore())
	ctx := context.Background()

	cases := []store.Compiler{
		{IDValue: "5001", Name: "C++", Judge: "uva"},
		{IDValue: "", Name: "C++", Judge: store.JudgeAtCoder},
		{IDValue: "5001", Name: "", Judge: store.JudgeAtCoder},
	}
	for _, compiler := range cases {
		if _, err := c.CreateCompiler(ctx, compiler); !errors.Is(err, xjudge_errors.ErrInvalidRequest) {
			t.Errorf("compiler %+v should be rejected, got %v", compiler, err)
		}
	}
}
