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

func spojStatusRow(runID, verdict string) string {
	return fmt.Sprintf(`<tr id="statusres_%s">
<td>%s</td>
<td><a href="/problems/TEST/">TEST</a></td>
<td class="statusres">%s</td>
<td class="stime">0.00</td>
<td class="smemory">2.5M</td>
</tr>`, runID, runID, verdict)
}

func newSpojServer(statusPage func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/submit/complete/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><input type="hidden" name="newSubmissionId" value="3301"></body></html>`)
	})
	mux.HandleFunc("/status/", statusPage)
	return httptest.NewServer(mux)
}

func newTestSpojSubmitter(baseURL string) *judge_service.SpojSubmitter {
	submitter := judge_service.NewSpojSubmitter(
		baseURL,
		judge_service.NewSessionFetcher(),
		judge_service.BotCredentials{Handle: "bot", Password: "hunter2"},
	)
	submitter.PollInterval = time.Millisecond
	submitter.PollAttempts = 2
	return submitter
}

func spojSubmission() judge_service.SubmissionInfo {
	return judge_service.SubmissionInfo{
		Judge:           store.JudgeSpoj,
		ProblemCode:     "TEST",
		CompilerIDValue: "44",
		Solution:        "print(42)",
	}
}

func TestSpojSubmitResolvesVerdict(t *testing.T) {
	srv := newSpojServer(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "<html><body><table>%s</table></body></html>",
			spojStatusRow("3301", "accepted"))
	})
	defer srv.Close()

	result, err := newTestSpojSubmitter(srv.URL).Submit(context.Background(), spojSubmission())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RemoteRunID != "3301" {
		t.Errorf("expected run 3301, got %s", result.RemoteRunID)
	}
	if result.Status != judge_service.StatusDone {
		t.Errorf("unexpected status %q", result.Status)
	}
	if result.Verdict != judge_service.VerdictAccepted {
		t.Errorf("unexpected verdict %q", result.Verdict)
	}
}

func TestSpojSubmitSurvivesStatusPageOutage(t *testing.T) {
	// the run was acknowledged, only the status page is down; the run
	// id must be kept instead of failing the whole submission
	srv := newSpojServer(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	defer srv.Close()

	result, err := newTestSpojSubmitter(srv.URL).Submit(context.Background(), spojSubmission())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RemoteRunID != "3301" {
		t.Errorf("expected the acknowledged run id, got %s", result.RemoteRunID)
	}
	if result.Status != judge_service.StatusSubmitted {
		t.Errorf("expected a submitted run without a verdict, got status %q", result.Status)
	}
	if result.Verdict != judge_service.VerdictWaiting {
		t.Errorf("unexpected verdict %q", result.Verdict)
	}
}
