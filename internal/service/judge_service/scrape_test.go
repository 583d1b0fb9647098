package judge_service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/xjudge/xjudge/internal/service/judge_service"
	"github.com/xjudge/xjudge/internal/store"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

const atcoderTaskPage = `<html><body>
<div class="col-sm-12"><span class="h2">A - Happy Birthday!<a class="btn-copy">Copy</a></span></div>
<div class="col-sm-12">
  <p>Time Limit: 2 sec / Memory Limit: 1024 MB</p>
  <div class="lang-en">
    <div class="part"><section><h3>Problem Statement</h3><p>Divide the cake fairly.</p></section></div>
    <div class="part"><section><h3>Constraints</h3><ul><li>1 &le; A, B &le; 16</li></ul></section></div>
    <div class="part"><section><h3>Sample Input 1</h3><pre>2 2</pre></section></div>
    <div class="part"><section><h3>Sample Output 1</h3><pre>Yay!</pre><p>Both can take two pieces.</p></section></div>
    <div class="part"><section><h3>Sample Input 2</h3><pre>16 16</pre></section></div>
    <div class="part"><section><h3>Sample Output 2</h3><pre>:(</pre></section></div>
  </div>
</div>
<div class="contest-title">AtCoder Beginner Contest 100</div>
</body></html>`

func TestAtCoderScrape(t *testing.T) {
	fetcher := &fixtureFetcher{pages: map[string]string{
		"https://atcoder.jp/contests/abc100/tasks/abc100_a": atcoderTaskPage,
	}}
	scraper := judge_service.NewAtCoderScraper("", fetcher)

	problem, err := scraper.Scrape(context.Background(), "abc100_a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if problem.Judge != store.JudgeAtCoder {
		t.Errorf("expected judge atcoder, got %s", problem.Judge)
	}
	if problem.Title != "Happy Birthday!" {
		t.Errorf("expected title without task prefix, got %q", problem.Title)
	}
	if problem.ContestName != "AtCoder Beginner Contest 100" {
		t.Errorf("unexpected contest name %q", problem.ContestName)
	}
	if problem.ContestLink != "https://atcoder.jp/contests/abc100" {
		t.Errorf("unexpected contest link %q", problem.ContestLink)
	}
	if problem.DescriptionRoute != "/description/atcoder-abc100_a" {
		t.Errorf("unexpected description route %q", problem.DescriptionRoute)
	}

	if len(problem.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %v", problem.Properties)
	}
	if problem.Properties[0].Title != "Time Limit" || problem.Properties[0].Content != "2 sec" {
		t.Errorf("unexpected time limit property %v", problem.Properties[0])
	}
	if problem.Properties[1].Title != "Memory Limit" || problem.Properties[1].Content != "1024 MB" {
		t.Errorf("unexpected memory limit property %v", problem.Properties[1])
	}

	// 2 prose parts + 2 folded sample pairs
	if len(problem.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(problem.Sections))
	}
	if problem.Sections[0].Title != "Problem Statement" {
		t.Errorf("unexpected first section title %q", problem.Sections[0].Title)
	}
	if problem.Sections[2].Title != "Sample 1" || problem.Sections[3].Title != "Sample 2" {
		t.Errorf(
			"expected auto-numbered samples, got %q and %q",
			problem.Sections[2].Title, problem.Sections[3].Title,
		)
	}

	sample1 := problem.Sections[2].Value.Content
	if !strings.Contains(sample1, "<pre>2 2</pre>") || !strings.Contains(sample1, "<pre>Yay!</pre>") {
		t.Errorf("sample 1 should pair input with output, got %q", sample1)
	}
	if !strings.Contains(sample1, "Both can take two pieces.") {
		t.Errorf("sample 1 should carry the output note, got %q", sample1)
	}

	sample2 := problem.Sections[3].Value.Content
	if !strings.Contains(sample2, "<pre>16 16</pre>") || !strings.Contains(sample2, "<pre>:(</pre>") {
		t.Errorf("sample 2 should pair input with output, got %q", sample2)
	}
}

func TestAtCoderScrapeDanglingSampleInput(t *testing.T) {
	page := `<html><body>
<div class="col-sm-12"><span class="h2">B - Broken</span></div>
<div class="col-sm-12">
  <p>Time Limit: 2 sec / Memory Limit: 1024 MB</p>
  <div class="lang-en">
    <div class="part"><section><h3>Sample Input 1</h3><pre>1</pre></section></div>
  </div>
</div>
</body></html>`

	fetcher := &fixtureFetcher{pages: map[string]string{
		"https://atcoder.jp/contests/abc101/tasks/abc101_b": page,
	}}
	scraper := judge_service.NewAtCoderScraper("", fetcher)

	_, err := scraper.Scrape(context.Background(), "abc101_b")
	if err == nil {
		t.Fatal("expected an error for a sample input without output")
	}
	if !strings.Contains(err.Error(), xjudge_errors.ErrUpstreamUnavailable.Error()) {
		t.Errorf("expected an upstream error, got %v", err)
	}
}

const spojProblemPage = `<html><body>
<h2 id="problem-name">TEST - Life, the Universe, and Everything</h2>
<div id="problem-body">
  <p>Rewrite small numbers from input to output.</p>
  <h3>Input</h3>
  <p>Numbers, one per line.</p>
  <h3>Output</h3>
  <p>Stop after 42.</p>
  <h3>Example</h3>
  <pre>1
2
88
42
99</pre>
</div>
<table id="problem-meta"><tbody>
  <tr><td>Time limit:</td><td>10s</td></tr>
  <tr><td>Memory limit:</td><td>1536MB</td></tr>
  <tr><td>Resource:</td><td>Douglas Adams, The Hitchhiker's Guide to the Galaxy</td></tr>
</tbody></table>
</body></html>`

func TestSpojScrape(t *testing.T) {
	fetcher := &fixtureFetcher{pages: map[string]string{
		"https://www.spoj.com/problems/TEST": spojProblemPage,
	}}
	scraper := judge_service.NewSpojScraper("", fetcher)

	// lowercase input codes are normalized
	problem, err := scraper.Scrape(context.Background(), "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if problem.Code != "TEST" {
		t.Errorf("expected uppercased code, got %q", problem.Code)
	}
	if problem.Title != "Life, the Universe, and Everything" {
		t.Errorf("unexpected title %q", problem.Title)
	}
	if problem.ContestName != "Douglas Adams, The Hitchhiker's Guide to the Galaxy" {
		t.Errorf("unexpected contest name %q", problem.ContestName)
	}

	if len(problem.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %v", problem.Properties)
	}
	if problem.Properties[0].Title != "Time limit:" || problem.Properties[0].Content != "10s" {
		t.Errorf("unexpected property %v", problem.Properties[0])
	}

	// untitled lead section + Input + Output + Example
	if len(problem.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(problem.Sections))
	}
	if problem.Sections[0].Title != "" {
		t.Errorf("expected untitled lead section, got %q", problem.Sections[0].Title)
	}
	if problem.Sections[1].Title != "Input" || problem.Sections[2].Title != "Output" {
		t.Errorf(
			"unexpected section titles %q, %q",
			problem.Sections[1].Title, problem.Sections[2].Title,
		)
	}
	if !strings.Contains(problem.Sections[3].Value.Content, "88") {
		t.Errorf("example section should keep the combined block, got %q", problem.Sections[3].Value.Content)
	}
}

const codeforcesProblemPage = `<html><body>
<div class="problem-statement">
  <div class="header">
    <div class="title">A. Theatre Square</div>
    <div class="time-limit"><div class="property-title">time limit per test</div>1 second</div>
    <div class="memory-limit"><div class="property-title">memory limit per test</div>256 megabytes</div>
  </div>
  <div><p>Theatre Square is rectangular.</p></div>
  <div class="input-specification"><div class="section-title">Input</div><p>Three numbers.</p></div>
  <div class="output-specification"><div class="section-title">Output</div><p>One number.</p></div>
  <div class="sample-tests">
    <div class="section-title">Examples</div>
    <div class="sample-test">
      <div class="input"><div class="title">Input</div><pre>6 6 4</pre></div>
      <div class="output"><div class="title">Output</div><pre>4</pre></div>
      <div class="input"><div class="title">Input</div><pre>1 1 1</pre></div>
      <div class="output"><div class="title">Output</div><pre>1</pre></div>
    </div>
  </div>
</div>
</body></html>`

func TestCodeforcesScrape(t *testing.T) {
	fetcher := &fixtureFetcher{pages: map[string]string{
		"https://codeforces.com/problemset/problem/1/A": codeforcesProblemPage,
	}}
	scraper := judge_service.NewCodeforcesScraper("", fetcher)

	problem, err := scraper.Scrape(context.Background(), "1A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if problem.Title != "Theatre Square" {
		t.Errorf("expected title without the index prefix, got %q", problem.Title)
	}
	if problem.ProblemLink != "https://codeforces.com/problemset/problem/1/A" {
		t.Errorf("unexpected problem link %q", problem.ProblemLink)
	}
	if problem.ContestLink != "https://codeforces.com/contest/1" {
		t.Errorf("unexpected contest link %q", problem.ContestLink)
	}

	if len(problem.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %v", problem.Properties)
	}
	if problem.Properties[0].Title != "Time Limit" || problem.Properties[0].Content != "1 second" {
		t.Errorf("unexpected time limit property %v", problem.Properties[0])
	}

	var sampleTitles []string
	for _, section := range problem.Sections {
		if strings.HasPrefix(section.Title, "Sample") {
			sampleTitles = append(sampleTitles, section.Title)
		}
	}
	if len(sampleTitles) != 2 || sampleTitles[0] != "Sample 1" || sampleTitles[1] != "Sample 2" {
		t.Fatalf("expected auto-numbered samples, got %v", sampleTitles)
	}

	for _, section := range problem.Sections {
		if section.Title == "Sample 1" {
			if !strings.Contains(section.Value.Content, "6 6 4") ||
				!strings.Contains(section.Value.Content, "<pre>4</pre>") {
				t.Errorf("sample 1 should pair input with output, got %q", section.Value.Content)
			}
		}
	}

	if problem.Sections[0].Title != "Statement" {
		t.Errorf("expected untitled block to become Statement, got %q", problem.Sections[0].Title)
	}
}

func TestCodeforcesScrapeMissingStatement(t *testing.T) {
	fetcher := &fixtureFetcher{pages: map[string]string{
		"https://codeforces.com/problemset/problem/999/Z": "<html><body></body></html>",
	}}
	scraper := judge_service.NewCodeforcesScraper("", fetcher)

	_, err := scraper.Scrape(context.Background(), "999Z")
	if err == nil {
		t.Fatal("expected an error when the statement is missing")
	}
	if !strings.Contains(err.Error(), xjudge_errors.ErrNotFound.Error()) {
		t.Errorf("expected a not-found error, got %v", err)
	}
}
