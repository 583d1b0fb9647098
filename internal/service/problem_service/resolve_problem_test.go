package problem_service_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/service"
	"github.com/xjudge/xjudge/internal/service/judge_service"
	"github.com/xjudge/xjudge/internal/service/problem_service"
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

// countingScraper records how many scrapes actually happen.
type countingScraper struct {
	calls atomic.Int64
	block chan struct{}
}

func (s *countingScraper) Scrape(_ context.Context, code string) (store.Problem, error) {
	s.calls.Add(1)
	if s.block != nil {
		<-s.block
	}
	return store.Problem{
		Judge: store.JudgeAtCoder,
		Code:  code,
		Title: "Problem " + code,
	}, nil
}

func newProblemService(scraper judge_service.Scraper) *problem_service.ProblemService {
	registry := judge_service.NewRegistry()
	registry.RegisterScraper(store.JudgeAtCoder, scraper)
	return &problem_service.ProblemService{
		Store:    store.NewMemoryStore(),
		Registry: registry,
	}
}

func TestGetProblemScrapesOnFirstSight(t *testing.T) {
	scraper := &countingScraper{}
	ps := newProblemService(scraper)
	ctx := context.Background()

	problem, err := ps.GetProblem(ctx, problem_service.ProblemRequest{
		Judge: "atcoder",
		Code:  "abc100_a",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if problem.ID == 0 {
		t.Error("resolved problem should carry its stored id")
	}
	if scraper.calls.Load() != 1 {
		t.Fatalf("expected 1 scrape, got %d", scraper.calls.Load())
	}

	// second request is served from the store
	again, err := ps.GetProblem(ctx, problem_service.ProblemRequest{
		Judge: "AtCoder",
		Code:  "abc100_a",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != problem.ID {
		t.Errorf("expected the same stored problem, got ids %d and %d", problem.ID, again.ID)
	}
	if scraper.calls.Load() != 1 {
		t.Errorf("cache hit must not scrape, got %d scrapes", scraper.calls.Load())
	}
}

// spojScraper spells codes the way spoj itself does: upper case.
type spojScraper struct {
	calls atomic.Int64
}

func (s *spojScraper) Scrape(_ context.Context, code string) (store.Problem, error) {
	s.calls.Add(1)
	code = strings.ToUpper(code)
	return store.Problem{
		Judge: store.JudgeSpoj,
		Code:  code,
		Title: "Problem " + code,
	}, nil
}

func TestGetProblemLowercaseSpojCodeHitsStore(t *testing.T) {
	scraper := &spojScraper{}
	registry := judge_service.NewRegistry()
	registry.RegisterScraper(store.JudgeSpoj, scraper)
	ps := &problem_service.ProblemService{
		Store:    store.NewMemoryStore(),
		Registry: registry,
	}
	ctx := context.Background()

	first, err := ps.GetProblem(ctx, problem_service.ProblemRequest{
		Judge: "spoj",
		Code:  "test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Code != "TEST" {
		t.Fatalf("expected the stored code to match spoj's spelling, got %q", first.Code)
	}

	again, err := ps.GetProblem(ctx, problem_service.ProblemRequest{
		Judge: "spoj",
		Code:  "test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != first.ID {
		t.Errorf("expected the same stored problem, got ids %d and %d", first.ID, again.ID)
	}
	if got := scraper.calls.Load(); got != 1 {
		t.Errorf("expected the second lookup to be served from the store, got %d scrapes", got)
	}
}

func TestGetProblemConcurrentRequestsShareOneScrape(t *testing.T) {
	scraper := &countingScraper{block: make(chan struct{})}
	ps := newProblemService(scraper)
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ps.GetProblem(ctx, problem_service.ProblemRequest{
				Judge: "atcoder",
				Code:  "abc200_c",
			})
			errs <- err
		}()
	}

	close(scraper.block)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := scraper.calls.Load(); got != 1 {
		t.Errorf("expected exactly 1 scrape for concurrent requests, got %d", got)
	}
}

func TestGetProblemUnknownJudge(t *testing.T) {
	ps := newProblemService(&countingScraper{})

	_, err := ps.GetProblem(context.Background(), problem_service.ProblemRequest{
		Judge: "uva",
		Code:  "100",
	})
	if err == nil {
		t.Fatal("expected an error for an unknown judge")
	}
	if !strings.Contains(err.Error(), xjudge_errors.ErrInvalidRequest.Error()) {
		t.Errorf("expected an invalid-request error, got %v", err)
	}
}

func TestGetProblemByRoute(t *testing.T) {
	ps := newProblemService(&countingScraper{})
	ctx := context.Background()

	problem, err := ps.GetProblemByRoute(ctx, "atcoder-abc100_a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if problem.Code != "abc100_a" {
		t.Errorf("unexpected code %q", problem.Code)
	}

	if _, err := ps.GetProblemByRoute(ctx, "noseparator"); err == nil {
		t.Error("expected an error for a malformed route")
	}
}

func TestListProblemsPaging(t *testing.T) {
	scraper := &countingScraper{}
	ps := newProblemService(scraper)
	ctx := context.Background()

	for _, code := range []string{"abc1_a", "abc1_b", "abc1_c"} {
		if _, err := ps.GetProblem(ctx, problem_service.ProblemRequest{
			Judge: "atcoder",
			Code:  code,
		}); err != nil {
			t.Fatalf("unexpected error seeding %s: %v", code, err)
		}
	}

	page, err := ps.ListProblems(ctx, problem_service.ListProblemsRequest{
		Judge:    "atcoder",
		PageSize: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 3 {
		t.Errorf("expected total 3, got %d", page.TotalCount)
	}
	if len(page.Problems) != 2 {
		t.Errorf("expected a page of 2, got %d", len(page.Problems))
	}
}
