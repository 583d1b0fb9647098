package problem_service

import (
	"golang.org/x/sync/singleflight"

	"github.com/xjudge/xjudge/internal/service/judge_service"
	"github.com/xjudge/xjudge/internal/store"
)

// ProblemService resolves problems cache-or-scrape. The database is the
// cache of record; a judge is only contacted when the problem has never
// been resolved before.
type ProblemService struct {
	Store    *store.Store
	Registry *judge_service.Registry

	scrapeGroup singleflight.Group
}

type ProblemRequest struct {
	Judge string `json:"judge" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

type ListProblemsRequest struct {
	Judge       string `json:"judge"`
	Code        string `json:"code"`
	Title       string `json:"title"`
	ContestName string `json:"contest_name"`
	PageNumber  int32  `json:"page_number" validate:"min=0"`
	PageSize    int32  `json:"page_size" validate:"min=0,max=100"`
}

// ProblemPage is one page of the problem set listing together with the
// unpaged match count.
type ProblemPage struct {
	Problems   []store.Problem `json:"problems"`
	TotalCount int64           `json:"total_count"`
	PageNumber int32           `json:"page_number"`
	PageSize   int32           `json:"page_size"`
}

const defaultPageSize = 25
