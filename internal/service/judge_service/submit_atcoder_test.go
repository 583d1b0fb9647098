package judge_service_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/xjudge/xjudge/internal/service/judge_service"
	"github.com/xjudge/xjudge/internal/store"
)

const atcoderLoginPage = `<html><body>
<form action="/login" method="post"><input type="hidden" name="csrf_token" value="token-1"></form>
</body></html>`

func atcoderSubmissionRow(task, runID, label string) string {
	return fmt.Sprintf(`<tr>
<td><time>2026-09-01 10:00:00</time></td>
<td><a href="/contests/abc100/tasks/%s">%s</a></td>
<td><a href="/users/bot">bot</a></td>
<td>Go (go 1.24)</td>
<td class="submission-score" data-id="%s">100</td>
<td>212 Byte</td>
<td><span class="label">%s</span></td>
<td>7 ms</td>
<td>1024 KB</td>
<td><a href="/contests/abc100/submissions/%s">Detail</a></td>
</tr>`, task, task, runID, label, runID)
}

// newAtCoderServer fakes the login, submit and submission-list pages of
// one contest; statusRows renders the submission list per request.
func newAtCoderServer(statusRows func(r *http.Request) string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, atcoderLoginPage)
	})
	mux.HandleFunc("/contests/abc100/submit", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html><body></body></html>")
	})
	mux.HandleFunc("/contests/abc100/submissions/me", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><body><table><tbody>%s</tbody></table></body></html>", statusRows(r))
	})
	return httptest.NewServer(mux)
}

func newTestAtCoderSubmitter(baseURL string) *judge_service.AtCoderSubmitter {
	submitter := judge_service.NewAtCoderSubmitter(
		baseURL,
		judge_service.NewSessionFetcher(),
		judge_service.BotCredentials{Handle: "bot", Password: "hunter2"},
	)
	submitter.PollInterval = time.Millisecond
	submitter.PollAttempts = 3
	return submitter
}

func atcoderSubmission(code string) judge_service.SubmissionInfo {
	return judge_service.SubmissionInfo{
		Judge:           store.JudgeAtCoder,
		ProblemCode:     code,
		CompilerIDValue: "5001",
		Solution:        "package main",
	}
}

func TestAtCoderSubmitTracksOwnTask(t *testing.T) {
	// the bot's newest run belongs to another task; the poll must pick
	// the row of the submitted task
	srv := newAtCoderServer(func(r *http.Request) string {
		if got := r.URL.Query().Get("f.Task"); got != "abc100_a" {
			t.Errorf("expected the poll to filter by task, got f.Task=%q", got)
		}
		return atcoderSubmissionRow("abc100_b", "999", "AC") +
			atcoderSubmissionRow("abc100_a", "123", "AC")
	})
	defer srv.Close()

	result, err := newTestAtCoderSubmitter(srv.URL).Submit(
		context.Background(),
		atcoderSubmission("abc100_a"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RemoteRunID != "123" {
		t.Errorf("expected the run of the submitted task, got run %s", result.RemoteRunID)
	}
	if result.Status != judge_service.StatusDone {
		t.Errorf("unexpected status %q", result.Status)
	}
	if result.Verdict != judge_service.VerdictAccepted {
		t.Errorf("unexpected verdict %q", result.Verdict)
	}
}

func TestAtCoderSubmitReportsSlowRunAsJudging(t *testing.T) {
	srv := newAtCoderServer(func(_ *http.Request) string {
		return atcoderSubmissionRow("abc100_a", "124", "WJ")
	})
	defer srv.Close()

	result, err := newTestAtCoderSubmitter(srv.URL).Submit(
		context.Background(),
		atcoderSubmission("abc100_a"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != judge_service.StatusJudging {
		t.Errorf("expected a still-judging run, got status %q", result.Status)
	}
	if result.RemoteRunID != "124" {
		t.Errorf("expected the acknowledged run id, got %s", result.RemoteRunID)
	}
	if result.Verdict != judge_service.VerdictWaiting {
		t.Errorf("unexpected verdict %q", result.Verdict)
	}
}

func TestAtCoderSubmitRejectsMalformedCode(t *testing.T) {
	srv := newAtCoderServer(func(_ *http.Request) string { return "" })
	defer srv.Close()

	if _, err := newTestAtCoderSubmitter(srv.URL).Submit(
		context.Background(),
		atcoderSubmission("abc100"),
	); err == nil {
		t.Fatal("expected an error for a code without a task suffix")
	}
}
