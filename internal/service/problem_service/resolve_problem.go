package problem_service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/service"
	"github.com/xjudge/xjudge/internal/service/judge_service"
	"github.com/xjudge/xjudge/internal/store"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

// GetProblem returns the stored problem for (judge, code), scraping the
// judge first if it was never resolved. Concurrent requests for the
// same problem share a single scrape; callers that lose the race still
// get the winner's row.
func (p *ProblemService) GetProblem(
	ctx context.Context,
	request ProblemRequest,
) (store.Problem, error) {
	if err := service.ValidateInput(request); err != nil {
		return store.Problem{}, err
	}

	judge := store.JudgeType(strings.ToLower(request.Judge))
	if !judge.Valid() {
		return store.Problem{}, fmt.Errorf(
			"%w, unknown judge %q",
			xjudge_errors.ErrInvalidRequest,
			request.Judge,
		)
	}
	code := judge_service.CanonicalCode(judge, request.Code)

	problem, err := p.Store.Problems.GetProblemByJudgeAndCode(ctx, judge, code)
	if err == nil {
		return problem, nil
	}
	if !errors.Is(err, xjudge_errors.ErrNotFound) {
		return store.Problem{}, err
	}

	return p.resolveOnce(ctx, judge, code)
}

// GetProblemByID serves stored problems only; an id never triggers a
// scrape.
func (p *ProblemService) GetProblemByID(ctx context.Context, id int32) (store.Problem, error) {
	return p.Store.Problems.GetProblemByID(ctx, id)
}

// GetProblemByRoute resolves a description route suffix of the form
// "<judge>-<code>".
func (p *ProblemService) GetProblemByRoute(ctx context.Context, route string) (store.Problem, error) {
	judge, code, found := strings.Cut(route, "-")
	if !found || judge == "" || code == "" {
		return store.Problem{}, fmt.Errorf(
			"%w, description route %q must look like <judge>-<code>",
			xjudge_errors.ErrInvalidRequest,
			route,
		)
	}
	return p.GetProblem(ctx, ProblemRequest{Judge: judge, Code: code})
}

// resolveOnce funnels all concurrent misses for one problem through a
// single scrape-and-persist.
func (p *ProblemService) resolveOnce(
	ctx context.Context,
	judge store.JudgeType,
	code string,
) (store.Problem, error) {
	key := string(judge) + "/" + code
	result, err, _ := p.scrapeGroup.Do(key, func() (any, error) {
		// the winner may have persisted the row while we queued
		problem, err := p.Store.Problems.GetProblemByJudgeAndCode(ctx, judge, code)
		if err == nil {
			return problem, nil
		}
		if !errors.Is(err, xjudge_errors.ErrNotFound) {
			return store.Problem{}, err
		}

		scraper, err := p.Registry.GetScraper(judge)
		if err != nil {
			return store.Problem{}, err
		}

		log.WithField("from", "problem-service").Infof(
			"problem %s not stored yet, scraping %s", code, judge,
		)
		scraped, err := scraper.Scrape(ctx, code)
		if err != nil {
			return store.Problem{}, err
		}

		created, err := p.Store.Problems.CreateProblem(ctx, scraped)
		if err != nil {
			// a writer outside this process got there first
			if errors.Is(err, xjudge_errors.ErrEntityAlreadyExist) {
				return p.Store.Problems.GetProblemByJudgeAndCode(ctx, judge, code)
			}
			return store.Problem{}, err
		}
		return created, nil
	})
	if err != nil {
		return store.Problem{}, err
	}
	return result.(store.Problem), nil
}
