package submission_service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/xjudge/xjudge/internal/service"
	"github.com/xjudge/xjudge/internal/store"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

// GetSubmissionByID hides the solution source of a closed submission
// from everyone but its author. The verdict and usage figures stay
// visible.
func (s *SubmissionService) GetSubmissionByID(
	ctx context.Context,
	id uuid.UUID,
) (store.Submission, error) {
	sub, err := s.Store.Submissions.GetSubmissionByID(ctx, id)
	if err != nil {
		return store.Submission{}, err
	}

	if !sub.IsOpen {
		claims, err := service.GetClaimsFromContext(ctx)
		if err != nil || claims.UserID != sub.UserID {
			sub.Solution = ""
		}
	}
	return sub, nil
}

func (s *SubmissionService) ListSubmissions(
	ctx context.Context,
	request ListSubmissionsRequest,
) ([]store.Submission, error) {
	if err := service.ValidateInput(request); err != nil {
		return nil, err
	}
	if request.PageSize == 0 {
		request.PageSize = defaultPageSize
	}

	filter := store.SubmissionFilter{
		ContestID: request.ContestID,
		ProblemID: request.ProblemID,
		Verdict:   request.Verdict,
		Limit:     request.PageSize,
		Offset:    request.PageNumber * request.PageSize,
	}

	if request.UserHandle != "" {
		user, err := s.Store.Users.GetUserByHandle(ctx, request.UserHandle)
		if err != nil {
			if errors.Is(err, xjudge_errors.ErrNotFound) {
				return nil, fmt.Errorf(
					"%w, no user with handle %q",
					xjudge_errors.ErrNotFound,
					request.UserHandle,
				)
			}
			return nil, err
		}
		filter.UserID = &user.ID
	}

	subs, err := s.Store.Submissions.ListSubmissions(ctx, filter)
	if err != nil {
		return nil, err
	}

	// closed solutions are blanked in listings
	for i := range subs {
		if !subs[i].IsOpen {
			subs[i].Solution = ""
		}
	}
	return subs, nil
}
