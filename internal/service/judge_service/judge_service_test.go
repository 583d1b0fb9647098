package judge_service_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/service/judge_service"
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

	logrus.Info("starting tests")
	code := m.Run()

	logrus.Info("tests completed")
	os.Exit(code)
}

// fixtureFetcher serves canned documents keyed by url.
type fixtureFetcher struct {
	pages map[string]string
}

func (f *fixtureFetcher) GetDocument(_ context.Context, url string) (*goquery.Document, error) {
	html, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("%w, no fixture for %s", xjudge_errors.ErrNotFound, url)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func TestRegistryUnknownJudge(t *testing.T) {
	registry := judge_service.NewRegistry()

	if _, err := registry.GetScraper(store.JudgeType("uva")); err == nil {
		t.Fatal("expected an error for an unregistered scraper")
	} else if !strings.Contains(err.Error(), xjudge_errors.ErrNotFound.Error()) {
		t.Errorf("expected a not-found error, got %v", err)
	}

	if _, err := registry.GetSubmitter(store.JudgeAtCoder); err == nil {
		t.Fatal("expected an error for an unregistered submitter")
	}
}

func TestRegistryJudges(t *testing.T) {
	registry := judge_service.NewRegistry()
	fetcher := &fixtureFetcher{}
	registry.RegisterScraper(store.JudgeAtCoder, judge_service.NewAtCoderScraper("", fetcher))
	registry.RegisterScraper(store.JudgeSpoj, judge_service.NewSpojScraper("", fetcher))

	judges := registry.Judges()
	if len(judges) != 2 {
		t.Fatalf("expected 2 judges, got %v", judges)
	}
}

func TestSplitAtCoderCode(t *testing.T) {
	contestID, err := judge_service.SplitAtCoderCode("abc100_a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contestID != "abc100" {
		t.Errorf("expected contest abc100, got %s", contestID)
	}

	for _, bad := range []string{"abc100", "_a", ""} {
		if _, err := judge_service.SplitAtCoderCode(bad); err == nil {
			t.Errorf("expected error for code %q", bad)
		}
	}
}

func TestCanonicalCode(t *testing.T) {
	cases := []struct {
		judge store.JudgeType
		in    string
		want  string
	}{
		{store.JudgeSpoj, "test", "TEST"},
		{store.JudgeSpoj, " Prime1 ", "PRIME1"},
		{store.JudgeAtCoder, "ABC100_A", "abc100_a"},
		{store.JudgeCodeforces, "1820a1", "1820A1"},
		{store.JudgeCodeforces, "notacode", "notacode"},
	}
	for _, c := range cases {
		if got := judge_service.CanonicalCode(c.judge, c.in); got != c.want {
			t.Errorf("CanonicalCode(%s, %q) = %q, want %q", c.judge, c.in, got, c.want)
		}
	}
}

func TestSplitCodeforcesCode(t *testing.T) {
	contestID, index, err := judge_service.SplitCodeforcesCode("1820A1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contestID != "1820" || index != "A1" {
		t.Errorf("expected 1820/A1, got %s/%s", contestID, index)
	}

	for _, bad := range []string{"1820", "A", ""} {
		if _, _, err := judge_service.SplitCodeforcesCode(bad); err == nil {
			t.Errorf("expected error for code %q", bad)
		}
	}
}
