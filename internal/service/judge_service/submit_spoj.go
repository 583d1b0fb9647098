package judge_service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/store"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

// SpojSubmitter posts solutions straight to SPOJ's submit endpoint and
// tracks the run through the public status page. SPOJ accepts the bot
// credentials inline on the submit form, so there is no login step.
type SpojSubmitter struct {
	BaseURL      string
	Fetcher      *HTTPFetcher
	Credentials  BotCredentials
	PollInterval time.Duration
	PollAttempts int

	logger *logrus.Entry
}

func NewSpojSubmitter(
	baseURL string,
	fetcher *HTTPFetcher,
	credentials BotCredentials,
) *SpojSubmitter {
	if fetcher == nil {
		panic("spoj submitter expects non-nil fetcher")
	}
	credentials.validate(store.JudgeSpoj)
	if baseURL == "" {
		baseURL = defaultSpojBaseURL
	}
	return &SpojSubmitter{
		BaseURL:     baseURL,
		Fetcher:     fetcher,
		Credentials: credentials,
		logger:      logrus.WithField("from", "spoj-submitter"),
	}
}

func (s *SpojSubmitter) Submit(
	ctx context.Context,
	info SubmissionInfo,
) (store.SubmissionResult, error) {
	problemCode := strings.ToUpper(info.ProblemCode)

	form := url.Values{}
	form.Set("login_user", s.Credentials.Handle)
	form.Set("password", s.Credentials.Password)
	form.Set("problemcode", problemCode)
	form.Set("lang", info.CompilerIDValue)
	form.Set("file", info.Solution)
	form.Set("submit", "Submit!")

	doc, err := s.Fetcher.PostForm(ctx, s.BaseURL+"/submit/complete/", form)
	if err != nil {
		return store.SubmissionResult{}, fmt.Errorf(
			"%w, spoj rejected the solution post: %w",
			xjudge_errors.ErrSubmissionFailed,
			err,
		)
	}

	runID, ok := doc.Find(`input[name="newSubmissionId"]`).First().Attr("value")
	if !ok || runID == "" {
		err := fmt.Errorf(
			"%w, spoj did not acknowledge the submission, check bot credentials and compiler id",
			xjudge_errors.ErrSubmissionFailed,
		)
		s.logger.Error(err)
		return store.SubmissionResult{}, err
	}

	s.logger.Infof("spoj accepted run %s for %s, waiting for verdict", runID, problemCode)

	statusURL := s.BaseURL + "/status/" + problemCode + "," + s.Credentials.Handle + "/"
	result, err := pollVerdict(ctx, s.PollInterval, s.PollAttempts, func(ctx context.Context) (store.SubmissionResult, bool, error) {
		doc, err := s.Fetcher.GetDocument(ctx, statusURL)
		if err != nil {
			return store.SubmissionResult{}, false, err
		}
		return parseSpojStatusRow(doc, runID)
	})
	if err != nil {
		// spoj already acknowledged the run, only the status page failed us
		s.logger.Warnf("run %s is on spoj but polling its verdict failed: %v", runID, err)
		return store.SubmissionResult{
			RemoteRunID: runID,
			Status:      StatusSubmitted,
			Verdict:     VerdictWaiting,
		}, nil
	}
	return result, nil
}

// parseSpojStatusRow reads the status table row matching the run. The
// verdict cell keeps the "waiting.." / "compiling.." / "running" text
// until SPOJ settles on a final verdict.
func parseSpojStatusRow(doc *goquery.Document, runID string) (store.SubmissionResult, bool, error) {
	row := doc.Find("tr#statusres_" + runID)
	if row.Length() == 0 {
		return store.SubmissionResult{}, false, fmt.Errorf(
			"%w, run %s missing from spoj status page",
			xjudge_errors.ErrUpstreamUnavailable,
			runID,
		)
	}

	verdict := strings.TrimSpace(row.Find(".statusres").First().Text())
	if idx := strings.IndexAny(verdict, "\n\t"); idx >= 0 {
		verdict = strings.TrimSpace(verdict[:idx])
	}

	switch strings.ToLower(verdict) {
	case "", "waiting..", "compiling..", "running", "running judge..":
		return store.SubmissionResult{RemoteRunID: runID}, false, nil
	}

	switch verdict {
	case "accepted":
		verdict = VerdictAccepted
	case "wrong answer":
		verdict = "Wrong Answer"
	case "time limit exceeded":
		verdict = "Time Limit Exceeded"
	case "compilation error":
		verdict = "Compilation Error"
	case "runtime error":
		verdict = "Runtime Error"
	}

	result := store.SubmissionResult{
		RemoteRunID: runID,
		Status:      StatusDone,
		Verdict:     verdict,
		TimeUsage:   strings.TrimSpace(row.Find(".stime").First().Text()),
		MemoryUsage: strings.TrimSpace(row.Find(".smemory").First().Text()),
	}
	return result, true, nil
}
