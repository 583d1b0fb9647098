package submission_service

import (
	"github.com/google/uuid"
	"github.com/xjudge/xjudge/internal/service"
	"github.com/xjudge/xjudge/internal/service/compiler_service"
	"github.com/xjudge/xjudge/internal/service/contest_service"
	"github.com/xjudge/xjudge/internal/service/judge_service"
	"github.com/xjudge/xjudge/internal/service/problem_service"
	"github.com/xjudge/xjudge/internal/store"
)

// SubmissionService relays solutions to the remote judges and keeps the
// local record of every attempt. It owns the solve counters: a user's
// solved count moves at most once per (user, problem) pair no matter
// how many accepted runs they collect.
type SubmissionService struct {
	Store           *store.Store
	Registry        *judge_service.Registry
	ProblemService  *problem_service.ProblemService
	ContestService  *contest_service.ContestService
	CompilerService *compiler_service.CompilerService

	creditMutex service.KeyMutex
}

type SubmissionRequest struct {
	Judge           string     `json:"judge" validate:"required"`
	ProblemCode     string     `json:"problem_code" validate:"required"`
	CompilerIDValue string     `json:"compiler_id_value" validate:"required"`
	Solution        string     `json:"solution" validate:"required"`
	ContestID       *uuid.UUID `json:"contest_id"`
	ContestPassword string     `json:"contest_password"`
	IsOpen          *bool      `json:"is_open"`
}

type ListSubmissionsRequest struct {
	UserHandle string     `json:"user_handle"`
	ProblemID  *int32     `json:"problem_id"`
	ContestID  *uuid.UUID `json:"contest_id"`
	Verdict    string     `json:"verdict"`
	PageNumber int32      `json:"page_number" validate:"min=0"`
	PageSize   int32      `json:"page_size" validate:"min=0,max=100"`
}

const defaultPageSize = 25
