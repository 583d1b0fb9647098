package problem_service

import (
	"context"
	"strings"

	"github.com/xjudge/xjudge/internal/service"
	"github.com/xjudge/xjudge/internal/store"
)

// ListProblems pages through already-resolved problems. Listing never
// reaches out to a judge.
func (p *ProblemService) ListProblems(
	ctx context.Context,
	request ListProblemsRequest,
) (ProblemPage, error) {
	if err := service.ValidateInput(request); err != nil {
		return ProblemPage{}, err
	}

	if request.PageSize == 0 {
		request.PageSize = defaultPageSize
	}

	filter := store.ProblemFilter{
		Judge:       store.JudgeType(strings.ToLower(request.Judge)),
		Code:        strings.TrimSpace(request.Code),
		Title:       strings.TrimSpace(request.Title),
		ContestName: strings.TrimSpace(request.ContestName),
		Limit:       request.PageSize,
		Offset:      request.PageNumber * request.PageSize,
	}

	problems, total, err := p.Store.Problems.ListProblems(ctx, filter)
	if err != nil {
		return ProblemPage{}, err
	}

	return ProblemPage{
		Problems:   problems,
		TotalCount: total,
		PageNumber: request.PageNumber,
		PageSize:   request.PageSize,
	}, nil
}
