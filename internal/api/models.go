package api

import (
	"github.com/xjudge/xjudge/internal/service/auth_service"
	"github.com/xjudge/xjudge/internal/service/compiler_service"
	"github.com/xjudge/xjudge/internal/service/contest_service"
	"github.com/xjudge/xjudge/internal/service/group_service"
	"github.com/xjudge/xjudge/internal/service/judge_service"
	"github.com/xjudge/xjudge/internal/service/problem_service"
	"github.com/xjudge/xjudge/internal/service/submission_service"
	"github.com/xjudge/xjudge/internal/service/user_service"
)

type Api struct {
	AuthService       *auth_service.AuthService
	ProblemService    *problem_service.ProblemService
	SubmissionService *submission_service.SubmissionService
	ContestService    *contest_service.ContestService
	CompilerService   *compiler_service.CompilerService
	GroupService      *group_service.GroupService
	UserService       *user_service.UserService
	Registry          *judge_service.Registry
}
