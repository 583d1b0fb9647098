package contest_service

import (
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/xjudge/xjudge/internal/store"
)

// ContestService owns the contest lifecycle and the authorization
// predicates the submission path relies on. Every predicate fails
// closed: any error on the way to a decision denies.
type ContestService struct {
	Store *store.Store

	// Redis caches computed ranks; nil disables the cache.
	Redis *redis.Client

	// Scoring ranks participants. Defaults to SolvedCountScoring.
	Scoring Scoring
}

type CreateContestRequest struct {
	Title       string                  `json:"title" validate:"required,min=3,max=100"`
	Description string                  `json:"description" validate:"max=2000"`
	BeginTime   time.Time               `json:"begin_time" validate:"required"`
	DurationMin int64                   `json:"duration_minutes" validate:"required,min=1"`
	Type        store.ContestType       `json:"type" validate:"required"`
	Visibility  store.ContestVisibility `json:"visibility" validate:"required"`
	Password    string                  `json:"password"`
	GroupID     *uuid.UUID              `json:"group_id"`
	Problems    []store.ContestProblem  `json:"problems" validate:"required,min=1,dive"`
}

type UpdateContestRequest struct {
	ContestID   uuid.UUID               `json:"contest_id" validate:"required"`
	Title       string                  `json:"title" validate:"required,min=3,max=100"`
	Description string                  `json:"description" validate:"max=2000"`
	BeginTime   time.Time               `json:"begin_time" validate:"required"`
	DurationMin int64                   `json:"duration_minutes" validate:"required,min=1"`
	Visibility  store.ContestVisibility `json:"visibility" validate:"required"`
	Password    string                  `json:"password"`
	Problems    []store.ContestProblem  `json:"problems" validate:"required,min=1,dive"`
}

// RankRow is one participant's standing.
type RankRow struct {
	UserID      uuid.UUID `json:"user_id"`
	Handle      string    `json:"handle"`
	SolvedCount int64     `json:"solved_count"`
	Penalty     int64     `json:"penalty"`
	Score       float64   `json:"score"`
}
