package contest_service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/service/judge_service"
	"github.com/xjudge/xjudge/internal/store"
)

const rankCacheTTL = 30 * time.Second

// Scoring turns a participant's contest submissions into a score.
// Higher scores rank first; ties break on lower penalty.
type Scoring interface {
	Score(contest store.Contest, subs []store.Submission) (score float64, penalty int64)
}

// SolvedCountScoring is the default strategy: one point per distinct
// solved problem, penalty is the sum of minutes from contest begin to
// each problem's first accepted run.
type SolvedCountScoring struct{}

func (SolvedCountScoring) Score(
	contest store.Contest,
	subs []store.Submission,
) (float64, int64) {
	firstAccepted := make(map[int32]time.Time)
	for _, sub := range subs {
		if !strings.EqualFold(sub.Verdict, judge_service.VerdictAccepted) {
			continue
		}
		if at, ok := firstAccepted[sub.ProblemID]; !ok || sub.SubmittedAt.Before(at) {
			firstAccepted[sub.ProblemID] = sub.SubmittedAt
		}
	}

	var penalty int64
	for _, at := range firstAccepted {
		if at.After(contest.BeginTime) {
			penalty += int64(at.Sub(contest.BeginTime) / time.Minute)
		}
	}
	return float64(len(firstAccepted)), penalty
}

// GetRank computes the standings of a contest, serving a cached copy
// when one is fresh enough.
func (c *ContestService) GetRank(
	ctx context.Context,
	contestID uuid.UUID,
) ([]RankRow, error) {
	if cached, ok := c.cachedRank(ctx, contestID); ok {
		return cached, nil
	}

	contest, err := c.Store.Contests.GetContestByID(ctx, contestID)
	if err != nil {
		return nil, err
	}

	participants, err := c.Store.Contests.ListParticipants(ctx, contestID)
	if err != nil {
		return nil, err
	}

	scoring := c.Scoring
	if scoring == nil {
		scoring = SolvedCountScoring{}
	}

	rows := make([]RankRow, 0, len(participants))
	for _, userID := range participants {
		userID := userID
		subs, err := c.Store.Submissions.ListSubmissions(ctx, store.SubmissionFilter{
			ContestID: &contestID,
			UserID:    &userID,
		})
		if err != nil {
			return nil, err
		}

		score, penalty := scoring.Score(contest, subs)

		var solved int64
		seen := make(map[int32]bool)
		for _, sub := range subs {
			if strings.EqualFold(sub.Verdict, judge_service.VerdictAccepted) && !seen[sub.ProblemID] {
				seen[sub.ProblemID] = true
				solved++
			}
		}

		handle := ""
		if user, err := c.Store.Users.GetUserByID(ctx, userID); err == nil {
			handle = user.Handle
		}

		rows = append(rows, RankRow{
			UserID:      userID,
			Handle:      handle,
			SolvedCount: solved,
			Penalty:     penalty,
			Score:       score,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].Penalty < rows[j].Penalty
	})

	c.storeRank(ctx, contestID, rows)
	return rows, nil
}

func rankCacheKey(contestID uuid.UUID) string {
	return "contest:rank:" + contestID.String()
}

func (c *ContestService) cachedRank(ctx context.Context, contestID uuid.UUID) ([]RankRow, bool) {
	if c.Redis == nil {
		return nil, false
	}
	payload, err := c.Redis.Get(ctx, rankCacheKey(contestID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warnf("rank cache read failed for contest %v: %v", contestID, err)
		}
		return nil, false
	}
	var rows []RankRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		log.Warnf("rank cache payload for contest %v is corrupt: %v", contestID, err)
		return nil, false
	}
	return rows, true
}

func (c *ContestService) storeRank(ctx context.Context, contestID uuid.UUID, rows []RankRow) {
	if c.Redis == nil {
		return
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := c.Redis.Set(ctx, rankCacheKey(contestID), payload, rankCacheTTL).Err(); err != nil {
		log.Warnf("rank cache write failed for contest %v: %v", contestID, err)
	}
}

func (c *ContestService) invalidateRank(ctx context.Context, contestID uuid.UUID) {
	if c.Redis == nil {
		return
	}
	if err := c.Redis.Del(ctx, rankCacheKey(contestID)).Err(); err != nil {
		log.Warnf("rank cache invalidation failed for contest %v: %v", contestID, err)
	}
}
