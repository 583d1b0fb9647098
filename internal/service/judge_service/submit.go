package judge_service

import (
	"context"
	"fmt"
	"time"

	"github.com/xjudge/xjudge/internal/store"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultPollAttempts = 45
)

// BotCredentials identify the account a submitter uses on the remote
// judge. Solutions are relayed through this account, so the remote run
// id it reports belongs to the bot, not the end user.
type BotCredentials struct {
	Handle   string
	Password string
}

func (c BotCredentials) validate(judge store.JudgeType) {
	if c.Handle == "" || c.Password == "" {
		panic("missing bot credentials for judge " + string(judge))
	}
}

// pollVerdict calls query until it reports a final verdict or the
// attempt budget runs out. A run the judge acknowledged but did not
// finish within the budget comes back still judging; a run that never
// became visible is reported as submission failure, never as a
// verdict.
func pollVerdict(
	ctx context.Context,
	interval time.Duration,
	attempts int,
	query func(ctx context.Context) (store.SubmissionResult, bool, error),
) (store.SubmissionResult, error) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if attempts <= 0 {
		attempts = defaultPollAttempts
	}

	var lastErr error
	var last store.SubmissionResult
	for i := 0; i < attempts; i++ {
		select {
		case <-ctx.Done():
			return store.SubmissionResult{}, fmt.Errorf(
				"%w, gave up waiting for a verdict: %w",
				xjudge_errors.ErrSubmissionFailed,
				ctx.Err(),
			)
		case <-time.After(interval):
		}

		result, final, err := query(ctx)
		if err != nil {
			// transient upstream hiccups are retried within the budget
			lastErr = err
			continue
		}
		if final {
			return result, nil
		}
		last = result
	}

	if last.RemoteRunID != "" && last.RemoteRunID != UnknownRemoteRunID {
		last.Status = StatusJudging
		last.Verdict = VerdictWaiting
		return last, nil
	}

	if lastErr != nil {
		return store.SubmissionResult{}, fmt.Errorf(
			"%w, verdict polling kept failing: %w",
			xjudge_errors.ErrSubmissionFailed,
			lastErr,
		)
	}
	return store.SubmissionResult{}, fmt.Errorf(
		"%w, no final verdict after %d polls",
		xjudge_errors.ErrSubmissionFailed,
		attempts,
	)
}
