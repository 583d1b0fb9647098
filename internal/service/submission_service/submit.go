package submission_service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/service"
	"github.com/xjudge/xjudge/internal/service/judge_service"
	"github.com/xjudge/xjudge/internal/service/problem_service"
	"github.com/xjudge/xjudge/internal/store"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

// Submit relays the solution to the remote judge and records the
// attempt. The record is created before the relay, so a judge outage
// still leaves a failed submission behind. The user's attempted count
// moves on every submit; the solved counters move only on the first
// accepted run for the (user, problem) pair.
func (s *SubmissionService) Submit(
	ctx context.Context,
	request SubmissionRequest,
) (store.Submission, error) {
	claims, err := service.GetClaimsFromContext(ctx)
	if err != nil {
		return store.Submission{}, err
	}
	if err := service.ValidateInput(request); err != nil {
		return store.Submission{}, err
	}

	problem, err := s.ProblemService.GetProblem(ctx, problem_service.ProblemRequest{
		Judge: request.Judge,
		Code:  request.ProblemCode,
	})
	if err != nil {
		return store.Submission{}, err
	}

	if request.ContestID != nil {
		if err := s.ContestService.CanSubmit(
			ctx,
			problem.ID,
			*request.ContestID,
			request.ContestPassword,
		); err != nil {
			return store.Submission{}, err
		}
	}

	compiler, err := s.CompilerService.GetCompilerByIDValue(ctx, request.CompilerIDValue)
	if err != nil {
		return store.Submission{}, err
	}
	if compiler.Judge != problem.Judge {
		return store.Submission{}, fmt.Errorf(
			"%w, compiler %s belongs to %s, not %s",
			xjudge_errors.ErrInvalidRequest,
			compiler.IDValue,
			compiler.Judge,
			problem.Judge,
		)
	}

	submitter, err := s.Registry.GetSubmitter(problem.Judge)
	if err != nil {
		return store.Submission{}, err
	}

	isOpen := true
	if request.IsOpen != nil {
		isOpen = *request.IsOpen
	}

	sub, err := s.Store.Submissions.CreateSubmission(ctx, store.Submission{
		ID:          uuid.New(),
		UserID:      claims.UserID,
		ProblemID:   problem.ID,
		ContestID:   request.ContestID,
		CompilerID:  compiler.ID,
		Judge:       problem.Judge,
		Solution:    request.Solution,
		RemoteRunID: judge_service.UnknownRemoteRunID,
		Status:      judge_service.StatusUnsubmitted,
		Verdict:     judge_service.VerdictWaiting,
		IsOpen:      isOpen,
		SubmittedAt: time.Now(),
	})
	if err != nil {
		return store.Submission{}, err
	}

	// every relay attempt counts as an attempt
	if err := s.Store.Users.IncrementAttemptedCount(ctx, claims.UserID); err != nil {
		log.Errorf(
			"failed to bump attempted count of user %s after submission %v: %v",
			claims.Handle, sub.ID, err,
		)
	}

	result, submitErr := submitter.Submit(ctx, judge_service.SubmissionInfo{
		Judge:           problem.Judge,
		ProblemCode:     problem.Code,
		CompilerIDValue: compiler.IDValue,
		Solution:        request.Solution,
		UserHandle:      claims.Handle,
	})
	if submitErr != nil {
		logrus.Errorf(
			"relay to %s failed for submission %v of user %s: %v",
			problem.Judge, sub.ID, claims.Handle, submitErr,
		)
		failed, mergeErr := s.Store.Submissions.MergeSubmissionResult(ctx, sub.ID, store.SubmissionResult{
			RemoteRunID: judge_service.UnknownRemoteRunID,
			Status:      judge_service.StatusFailed,
			Verdict:     judge_service.VerdictWaiting,
		})
		if mergeErr != nil {
			log.Errorf("cannot mark submission %v as failed: %v", sub.ID, mergeErr)
			failed = sub
		}
		return failed, fmt.Errorf(
			"%w, the judge did not accept the submission: %w",
			xjudge_errors.ErrSubmissionFailed,
			submitErr,
		)
	}

	if !strings.EqualFold(result.Verdict, judge_service.VerdictAccepted) {
		return s.Store.Submissions.MergeSubmissionResult(ctx, sub.ID, result)
	}
	return s.mergeAndCredit(ctx, claims, sub, result)
}

// mergeAndCredit merges an accepted result and bumps the user's and
// problem's solved counts at most once per (user, problem) pair. Merge
// and the prior-accept scan share the per-pair mutex; an accepted run
// is never visible to the scan while its merge is in flight.
func (s *SubmissionService) mergeAndCredit(
	ctx context.Context,
	claims service.UserCredentialClaims,
	sub store.Submission,
	result store.SubmissionResult,
) (store.Submission, error) {
	key := sub.UserID.String() + "/" + fmt.Sprint(sub.ProblemID)
	s.creditMutex.Lock(key)
	defer s.creditMutex.Unlock(key)

	merged, err := s.Store.Submissions.MergeSubmissionResult(ctx, sub.ID, result)
	if err != nil {
		return store.Submission{}, err
	}

	s.creditSolve(ctx, claims, merged)
	return merged, nil
}

// creditSolve must run under the per-pair mutex.
func (s *SubmissionService) creditSolve(
	ctx context.Context,
	claims service.UserCredentialClaims,
	sub store.Submission,
) {
	prior, err := s.Store.Submissions.ListSubmissionsByUserAndProblem(ctx, sub.UserID, sub.ProblemID)
	if err != nil {
		log.Errorf(
			"cannot check earlier accepted runs of user %s on problem %v, skipping credit: %v",
			claims.Handle, sub.ProblemID, err,
		)
		return
	}
	for _, p := range prior {
		if p.ID == sub.ID {
			continue
		}
		if strings.EqualFold(p.Verdict, judge_service.VerdictAccepted) {
			return
		}
	}

	if err := s.Store.Users.IncrementSolvedCount(ctx, sub.UserID); err != nil {
		log.Errorf(
			"failed to bump solved count of user %s for problem %v: %v",
			claims.Handle, sub.ProblemID, err,
		)
		return
	}
	if err := s.Store.Problems.IncrementProblemSolvedCount(ctx, sub.ProblemID); err != nil {
		log.Errorf("failed to bump solved count of problem %v: %v", sub.ProblemID, err)
	}

	logrus.Infof("user %s solved problem %v", claims.Handle, sub.ProblemID)
}
