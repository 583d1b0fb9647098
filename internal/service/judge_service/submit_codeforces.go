package judge_service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/store"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

// CodeforcesSubmitter logs the bot in through the web form, posts the
// solution to the problemset submit page, and resolves the verdict
// through the public user.status api.
type CodeforcesSubmitter struct {
	BaseURL      string
	Fetcher      *HTTPFetcher
	Credentials  BotCredentials
	PollInterval time.Duration
	PollAttempts int

	logger *logrus.Entry
}

func NewCodeforcesSubmitter(
	baseURL string,
	fetcher *HTTPFetcher,
	credentials BotCredentials,
) *CodeforcesSubmitter {
	if fetcher == nil {
		panic("codeforces submitter expects non-nil fetcher")
	}
	credentials.validate(store.JudgeCodeforces)
	if baseURL == "" {
		baseURL = defaultCodeforcesBaseURL
	}
	return &CodeforcesSubmitter{
		BaseURL:     baseURL,
		Fetcher:     fetcher,
		Credentials: credentials,
		logger:      logrus.WithField("from", "codeforces-submitter"),
	}
}

func (s *CodeforcesSubmitter) Submit(
	ctx context.Context,
	info SubmissionInfo,
) (store.SubmissionResult, error) {
	contestID, problemIndex, err := SplitCodeforcesCode(info.ProblemCode)
	if err != nil {
		return store.SubmissionResult{}, err
	}

	if err := s.login(ctx); err != nil {
		return store.SubmissionResult{}, err
	}

	submittedAt := time.Now().Unix()
	if err := s.postSolution(ctx, contestID, problemIndex, info); err != nil {
		return store.SubmissionResult{}, err
	}

	s.logger.Infof("posted solution for %s, polling user.status", info.ProblemCode)

	return pollVerdict(ctx, s.PollInterval, s.PollAttempts, func(ctx context.Context) (store.SubmissionResult, bool, error) {
		return s.queryLatestRun(ctx, contestID, problemIndex, submittedAt)
	})
}

func (s *CodeforcesSubmitter) login(ctx context.Context) error {
	loginURL := s.BaseURL + "/enter"
	doc, err := s.Fetcher.GetDocument(ctx, loginURL)
	if err != nil {
		return err
	}

	csrf, ok := doc.Find(`input[name="csrf_token"]`).First().Attr("value")
	if !ok || csrf == "" {
		err := fmt.Errorf(
			"%w, codeforces login page had no csrf token",
			xjudge_errors.ErrUpstreamUnavailable,
		)
		s.logger.Error(err)
		return err
	}

	form := url.Values{}
	form.Set("handleOrEmail", s.Credentials.Handle)
	form.Set("password", s.Credentials.Password)
	form.Set("csrf_token", csrf)
	form.Set("action", "enter")
	if _, err := s.Fetcher.PostForm(ctx, loginURL, form); err != nil {
		return fmt.Errorf(
			"%w, codeforces login failed for bot %s: %w",
			xjudge_errors.ErrSubmissionFailed,
			s.Credentials.Handle,
			err,
		)
	}
	return nil
}

func (s *CodeforcesSubmitter) postSolution(
	ctx context.Context,
	contestID string,
	problemIndex string,
	info SubmissionInfo,
) error {
	submitURL := s.BaseURL + "/problemset/submit"
	doc, err := s.Fetcher.GetDocument(ctx, submitURL)
	if err != nil {
		return err
	}
	csrf, ok := doc.Find(`input[name="csrf_token"]`).First().Attr("value")
	if !ok || csrf == "" {
		return fmt.Errorf(
			"%w, codeforces submit page had no csrf token, bot is likely logged out",
			xjudge_errors.ErrSubmissionFailed,
		)
	}

	form := url.Values{}
	form.Set("submittedProblemCode", contestID+problemIndex)
	form.Set("programTypeId", info.CompilerIDValue)
	form.Set("source", info.Solution)
	form.Set("csrf_token", csrf)
	form.Set("action", "submitSolutionFormSubmitted")

	if _, err := s.Fetcher.PostForm(ctx, submitURL+"?csrf_token="+csrf, form); err != nil {
		return fmt.Errorf(
			"%w, codeforces rejected the solution post: %w",
			xjudge_errors.ErrSubmissionFailed,
			err,
		)
	}
	return nil
}

type cfRunStatus struct {
	ID                  int64  `json:"id"`
	CreationTimeSeconds int64  `json:"creationTimeSeconds"`
	Verdict             string `json:"verdict"`
	TimeConsumedMillis  int64  `json:"timeConsumedMillis"`
	MemoryConsumedBytes int64  `json:"memoryConsumedBytes"`
	Problem             struct {
		ContestID int64  `json:"contestId"`
		Index     string `json:"index"`
	} `json:"problem"`
}

// queryLatestRun finds the bot's newest run for the problem among its
// recent submissions. Runs created before our post are skipped so a
// stale run cannot satisfy the poll.
func (s *CodeforcesSubmitter) queryLatestRun(
	ctx context.Context,
	contestID string,
	problemIndex string,
	submittedAt int64,
) (store.SubmissionResult, bool, error) {
	runs, err := s.queryRuns(ctx, 1, 20)
	if err != nil {
		return store.SubmissionResult{}, false, err
	}

	wantContest, _ := strconv.ParseInt(contestID, 10, 64)
	for _, run := range runs {
		if run.Problem.ContestID != wantContest || run.Problem.Index != problemIndex {
			continue
		}
		if run.CreationTimeSeconds < submittedAt {
			continue
		}

		runID := strconv.FormatInt(run.ID, 10)
		if run.Verdict == "" || run.Verdict == "TESTING" {
			return store.SubmissionResult{RemoteRunID: runID}, false, nil
		}
		return store.SubmissionResult{
			RemoteRunID: runID,
			Status:      StatusDone,
			Verdict:     expandCodeforcesVerdict(run.Verdict),
			TimeUsage:   strconv.FormatInt(run.TimeConsumedMillis, 10) + " ms",
			MemoryUsage: strconv.FormatInt(run.MemoryConsumedBytes/1024, 10) + " KB",
		}, true, nil
	}

	// run not visible yet
	return store.SubmissionResult{RemoteRunID: UnknownRemoteRunID}, false, nil
}

func (s *CodeforcesSubmitter) queryRuns(
	ctx context.Context,
	from int,
	count int,
) ([]cfRunStatus, error) {
	params := url.Values{}
	params.Set("handle", s.Credentials.Handle)
	params.Set("from", strconv.Itoa(from))
	params.Set("count", strconv.Itoa(count))
	queryURL := s.BaseURL + "/api/user.status?" + params.Encode()

	ctx, cancel := context.WithTimeout(ctx, s.Fetcher.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		err = fmt.Errorf(
			"%w, failed to create http request for %s: %w",
			xjudge_errors.ErrInternal,
			queryURL,
			err,
		)
		s.logger.Error(err)
		return nil, err
	}

	res, err := s.Fetcher.client().Do(req)
	if err != nil {
		err = fmt.Errorf(
			"%w, failed to get response from %s: %w",
			xjudge_errors.ErrHttpResponse,
			queryURL,
			err,
		)
		s.logger.Error(err)
		return nil, err
	}
	defer res.Body.Close()

	var resJson struct {
		Status  string        `json:"status"`
		Result  []cfRunStatus `json:"result"`
		Comment string        `json:"comment"`
	}
	if err = json.NewDecoder(res.Body).Decode(&resJson); err != nil {
		err = fmt.Errorf(
			"%w, cannot decode user.status response to %T: %w",
			xjudge_errors.ErrHttpResponse,
			resJson,
			err,
		)
		s.logger.Error(err)
		return nil, err
	}

	if resJson.Status != "OK" {
		err = fmt.Errorf(
			"%w, user.status returned %q, %s",
			xjudge_errors.ErrHttpResponse,
			resJson.Status,
			resJson.Comment,
		)
		s.logger.Error(err)
		return nil, err
	}

	return resJson.Result, nil
}

func expandCodeforcesVerdict(verdict string) string {
	if verdict == "OK" {
		return VerdictAccepted
	}
	// "WRONG_ANSWER" reads as "Wrong Answer"
	words := strings.Split(strings.ToLower(verdict), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
