package judge_service

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xjudge/xjudge/internal/store"
)

const (
	// placeholder run id until the remote judge assigns one
	UnknownRemoteRunID = "0"

	VerdictWaiting  = "Waiting Judge"
	VerdictAccepted = "Accepted"

	// a submission starts unsubmitted, turns submitted once the remote
	// judge acknowledges the run, judging while the verdict is still
	// pending, and ends done or failed
	StatusUnsubmitted = "unsubmitted"
	StatusSubmitted   = "submitted"
	StatusJudging     = "judging"
	StatusDone        = "done"
	StatusFailed      = "failed"
)

// CanonicalCode rewrites a user-typed problem code into the spelling
// the judge itself uses, so every spelling of one problem lands on one
// stored row. SPOJ codes are upper case, AtCoder task codes are lower
// case, and a Codeforces index is upper case after the contest number.
func CanonicalCode(judge store.JudgeType, code string) string {
	code = strings.TrimSpace(code)
	switch judge {
	case store.JudgeSpoj:
		return strings.ToUpper(code)
	case store.JudgeAtCoder:
		return strings.ToLower(code)
	case store.JudgeCodeforces:
		contestID, index, err := SplitCodeforcesCode(code)
		if err != nil {
			return code
		}
		return contestID + strings.ToUpper(index)
	default:
		return code
	}
}

// Scraper fetches a remote problem page and normalizes it into a
// problem document. Implementations never return a partially populated
// problem: any fetch or parse failure surfaces as an error.
type Scraper interface {
	Scrape(ctx context.Context, code string) (store.Problem, error)
}

// SubmissionInfo is everything a submitter needs to relay a solution to
// its remote judge.
type SubmissionInfo struct {
	Judge           store.JudgeType
	ProblemCode     string
	CompilerIDValue string
	Solution        string
	UserHandle      string
}

// Submitter relays a solution to its remote judge and reports the
// resulting run id and verdict. A single synchronous call; the returned
// status may still be intermediate and re-querying is the caller's
// concern.
type Submitter interface {
	Submit(ctx context.Context, info SubmissionInfo) (store.SubmissionResult, error)
}

// Fetcher retrieves a remote document. Adapters take it as a dependency
// so tests can substitute fixture documents for live pages.
type Fetcher interface {
	GetDocument(ctx context.Context, url string) (*goquery.Document, error)
}
