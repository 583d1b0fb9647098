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

// AtCoderSubmitter relays a solution through the bot account and polls
// the bot's submission list until the run leaves the judge queue.
type AtCoderSubmitter struct {
	BaseURL      string
	Fetcher      *HTTPFetcher
	Credentials  BotCredentials
	PollInterval time.Duration
	PollAttempts int

	logger *logrus.Entry
}

func NewAtCoderSubmitter(
	baseURL string,
	fetcher *HTTPFetcher,
	credentials BotCredentials,
) *AtCoderSubmitter {
	if fetcher == nil {
		panic("atcoder submitter expects non-nil fetcher")
	}
	credentials.validate(store.JudgeAtCoder)
	if baseURL == "" {
		baseURL = defaultAtCoderBaseURL
	}
	return &AtCoderSubmitter{
		BaseURL:     baseURL,
		Fetcher:     fetcher,
		Credentials: credentials,
		logger:      logrus.WithField("from", "atcoder-submitter"),
	}
}

func (s *AtCoderSubmitter) Submit(
	ctx context.Context,
	info SubmissionInfo,
) (store.SubmissionResult, error) {
	contestID, err := SplitAtCoderCode(info.ProblemCode)
	if err != nil {
		return store.SubmissionResult{}, err
	}

	csrf, err := s.login(ctx)
	if err != nil {
		return store.SubmissionResult{}, err
	}

	submitURL := s.BaseURL + "/contests/" + contestID + "/submit"
	form := url.Values{}
	form.Set("data.TaskScreenName", info.ProblemCode)
	form.Set("data.LanguageId", info.CompilerIDValue)
	form.Set("sourceCode", info.Solution)
	form.Set("csrf_token", csrf)

	if _, err := s.Fetcher.PostForm(ctx, submitURL, form); err != nil {
		return store.SubmissionResult{}, fmt.Errorf(
			"%w, atcoder rejected the solution post: %w",
			xjudge_errors.ErrSubmissionFailed,
			err,
		)
	}

	s.logger.Infof("posted solution for %s, waiting for verdict", info.ProblemCode)

	statusURL := s.BaseURL + "/contests/" + contestID + "/submissions/me" +
		"?f.Task=" + url.QueryEscape(info.ProblemCode)
	return pollVerdict(ctx, s.PollInterval, s.PollAttempts, func(ctx context.Context) (store.SubmissionResult, bool, error) {
		doc, err := s.Fetcher.GetDocument(ctx, statusURL)
		if err != nil {
			return store.SubmissionResult{}, false, err
		}
		return parseAtCoderStatusRow(doc, info.ProblemCode)
	})
}

// login fetches the login page for a csrf token and posts the bot
// credentials. AtCoder ties the token to the session cookie, so the
// fetcher's client must carry a cookie jar.
func (s *AtCoderSubmitter) login(ctx context.Context) (string, error) {
	loginURL := s.BaseURL + "/login"
	doc, err := s.Fetcher.GetDocument(ctx, loginURL)
	if err != nil {
		return "", err
	}

	csrf, ok := doc.Find(`input[name="csrf_token"]`).First().Attr("value")
	if !ok || csrf == "" {
		err := fmt.Errorf(
			"%w, atcoder login page had no csrf token",
			xjudge_errors.ErrUpstreamUnavailable,
		)
		s.logger.Error(err)
		return "", err
	}

	form := url.Values{}
	form.Set("username", s.Credentials.Handle)
	form.Set("password", s.Credentials.Password)
	form.Set("csrf_token", csrf)
	if _, err := s.Fetcher.PostForm(ctx, loginURL, form); err != nil {
		return "", fmt.Errorf(
			"%w, atcoder login failed for bot %s: %w",
			xjudge_errors.ErrSubmissionFailed,
			s.Credentials.Handle,
			err,
		)
	}

	return csrf, nil
}

// parseAtCoderStatusRow reads the newest submission-list row belonging
// to the task. The list carries every run of the shared bot account, so
// rows of other tasks are skipped even though the poll url already
// filters by task. Verdicts still carrying a waiting label ("WJ",
// "1/3 WJ", "Judging") are not final.
func parseAtCoderStatusRow(doc *goquery.Document, task string) (store.SubmissionResult, bool, error) {
	var row *goquery.Selection
	doc.Find("table tbody tr").EachWithBreak(func(_ int, candidate *goquery.Selection) bool {
		if rowBelongsToTask(candidate, task) {
			row = candidate
			return false
		}
		return true
	})
	if row == nil {
		return store.SubmissionResult{}, false, fmt.Errorf(
			"%w, no run for task %s in the atcoder submission list",
			xjudge_errors.ErrUpstreamUnavailable,
			task,
		)
	}

	runID := ""
	if href, ok := row.Find("td.submission-score").First().Attr("data-id"); ok {
		runID = href
	} else if link, ok := row.Find("a").Last().Attr("href"); ok {
		if idx := strings.LastIndex(link, "/"); idx >= 0 {
			runID = link[idx+1:]
		}
	}
	if runID == "" {
		runID = UnknownRemoteRunID
	}

	verdict := strings.TrimSpace(row.Find("td .label").First().Text())
	if verdict == "" {
		verdict = strings.TrimSpace(row.Find("td").Eq(6).Text())
	}

	waiting := verdict == "" ||
		verdict == "WJ" ||
		verdict == "Judging" ||
		strings.Contains(verdict, "/")
	if waiting {
		return store.SubmissionResult{RemoteRunID: runID}, false, nil
	}

	result := store.SubmissionResult{
		RemoteRunID: runID,
		Status:      StatusDone,
		Verdict:     expandAtCoderVerdict(verdict),
		TimeUsage:   strings.TrimSpace(row.Find("td").Eq(7).Text()),
		MemoryUsage: strings.TrimSpace(row.Find("td").Eq(8).Text()),
	}
	return result, true, nil
}

func rowBelongsToTask(row *goquery.Selection, task string) bool {
	match := false
	row.Find("a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		if href, ok := link.Attr("href"); ok && strings.HasSuffix(href, "/tasks/"+task) {
			match = true
			return false
		}
		return true
	})
	return match
}

func expandAtCoderVerdict(label string) string {
	switch label {
	case "AC":
		return VerdictAccepted
	case "WA":
		return "Wrong Answer"
	case "TLE":
		return "Time Limit Exceeded"
	case "MLE":
		return "Memory Limit Exceeded"
	case "RE":
		return "Runtime Error"
	case "CE":
		return "Compilation Error"
	case "OLE":
		return "Output Limit Exceeded"
	case "IE":
		return "Internal Error"
	default:
		return label
	}
}
