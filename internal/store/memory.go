package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

// NewMemoryStore returns a map-backed store. It honors the same
// contracts as the postgres store and backs the service tests.
func NewMemoryStore() *Store {
	db := &memDB{
		problems:     make(map[int32]Problem),
		problemKeys:  make(map[string]int32),
		compilers:    make(map[string]Compiler),
		submissions:  make(map[uuid.UUID]Submission),
		users:        make(map[uuid.UUID]User),
		contests:     make(map[uuid.UUID]Contest),
		participants: make(map[uuid.UUID]map[uuid.UUID]bool),
		groups:       make(map[uuid.UUID]Group),
		userGroups:   make(map[uuid.UUID]map[uuid.UUID]GroupRole),
		invitations:  make(map[uuid.UUID]Invitation),
	}
	return &Store{
		Problems:    &memProblemStore{db: db},
		Compilers:   &memCompilerStore{db: db},
		Submissions: &memSubmissionStore{db: db},
		Users:       &memUserStore{db: db},
		Contests:    &memContestStore{db: db},
		Groups:      &memGroupStore{db: db},
	}
}

type memDB struct {
	mutex sync.RWMutex

	problemSeq   int32
	problems     map[int32]Problem
	problemKeys  map[string]int32
	compilerSeq  int32
	compilers    map[string]Compiler
	submissions  map[uuid.UUID]Submission
	users        map[uuid.UUID]User
	contests     map[uuid.UUID]Contest
	participants map[uuid.UUID]map[uuid.UUID]bool
	groups       map[uuid.UUID]Group
	userGroups   map[uuid.UUID]map[uuid.UUID]GroupRole
	invitations  map[uuid.UUID]Invitation
}

func problemKey(judge JudgeType, code string) string {
	return string(judge) + "/" + code
}

type memProblemStore struct {
	db *memDB
}

func (s *memProblemStore) GetProblemByJudgeAndCode(
	_ context.Context,
	judge JudgeType,
	code string,
) (Problem, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	id, ok := s.db.problemKeys[problemKey(judge, code)]
	if !ok {
		return Problem{}, xjudge_errors.ErrNotFound
	}
	return s.db.problems[id], nil
}

func (s *memProblemStore) GetProblemByID(_ context.Context, id int32) (Problem, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	p, ok := s.db.problems[id]
	if !ok {
		return Problem{}, xjudge_errors.ErrNotFound
	}
	return p, nil
}

func (s *memProblemStore) CreateProblem(_ context.Context, p Problem) (Problem, error) {
	s.db.mutex.Lock()
	defer s.db.mutex.Unlock()

	key := problemKey(p.Judge, p.Code)
	if _, exists := s.db.problemKeys[key]; exists {
		return Problem{}, fmt.Errorf(
			"%w, problem %s already scraped",
			xjudge_errors.ErrEntityAlreadyExist,
			key,
		)
	}
	s.db.problemSeq++
	p.ID = s.db.problemSeq
	p.SolvedCount = 0
	s.db.problems[p.ID] = p
	s.db.problemKeys[key] = p.ID
	return p, nil
}

func (s *memProblemStore) ListProblems(
	_ context.Context,
	filter ProblemFilter,
) ([]Problem, int64, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	matched := make([]Problem, 0)
	for _, p := range s.db.problems {
		if filter.Judge != "" && p.Judge != filter.Judge {
			continue
		}
		if filter.Code != "" && !strings.Contains(strings.ToLower(p.Code), strings.ToLower(filter.Code)) {
			continue
		}
		if filter.Title != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.ContestName != "" && !strings.Contains(strings.ToLower(p.ContestName), strings.ToLower(filter.ContestName)) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := int(filter.Offset)
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filter.Limit > 0 && start+int(filter.Limit) < end {
		end = start + int(filter.Limit)
	}
	return matched[start:end], total, nil
}

func (s *memProblemStore) IncrementProblemSolvedCount(_ context.Context, id int32) error {
	s.db.mutex.Lock()
	defer s.db.mutex.Unlock()

	p, ok := s.db.problems[id]
	if !ok {
		return xjudge_errors.ErrNotFound
	}
	p.SolvedCount++
	s.db.problems[id] = p
	return nil
}

type memCompilerStore struct {
	db *memDB
}

func (s *memCompilerStore) CreateCompiler(_ context.Context, c Compiler) (Compiler, error) {
	s.db.mutex.Lock()
	defer s.db.mutex.Unlock()

	if _, ok := s.db.compilers[c.IDValue]; ok {
		return Compiler{}, xjudge_errors.ErrEntityAlreadyExist
	}
	s.db.compilerSeq++
	c.ID = s.db.compilerSeq
	s.db.compilers[c.IDValue] = c
	return c, nil
}

func (s *memCompilerStore) GetCompilerByIDValue(_ context.Context, idValue string) (Compiler, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	c, ok := s.db.compilers[idValue]
	if !ok {
		return Compiler{}, xjudge_errors.ErrNotFound
	}
	return c, nil
}

func (s *memCompilerStore) ListCompilersByJudge(_ context.Context, judge JudgeType) ([]Compiler, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	compilers := make([]Compiler, 0)
	for _, c := range s.db.compilers {
		if c.Judge == judge {
			compilers = append(compilers, c)
		}
	}
	sort.Slice(compilers, func(i, j int) bool { return compilers[i].Name < compilers[j].Name })
	return compilers, nil
}

type memSubmissionStore struct {
	db *memDB
}

func (s *memSubmissionStore) CreateSubmission(_ context.Context, sub Submission) (Submission, error) {
	s.db.mutex.Lock()
	defer s.db.mutex.Unlock()

	if _, exists := s.db.submissions[sub.ID]; exists {
		return Submission{}, xjudge_errors.ErrEntityAlreadyExist
	}
	s.db.submissions[sub.ID] = sub
	return sub, nil
}

func (s *memSubmissionStore) GetSubmissionByID(_ context.Context, id uuid.UUID) (Submission, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	sub, ok := s.db.submissions[id]
	if !ok {
		return Submission{}, xjudge_errors.ErrNotFound
	}
	return sub, nil
}

func (s *memSubmissionStore) MergeSubmissionResult(
	_ context.Context,
	id uuid.UUID,
	result SubmissionResult,
) (Submission, error) {
	s.db.mutex.Lock()
	defer s.db.mutex.Unlock()

	sub, ok := s.db.submissions[id]
	if !ok {
		return Submission{}, xjudge_errors.ErrNotFound
	}
	sub.RemoteRunID = result.RemoteRunID
	sub.Status = result.Status
	sub.Verdict = result.Verdict
	sub.TimeUsage = result.TimeUsage
	sub.MemoryUsage = result.MemoryUsage
	s.db.submissions[id] = sub
	return sub, nil
}

func (s *memSubmissionStore) ListSubmissionsByUserAndProblem(
	_ context.Context,
	userID uuid.UUID,
	problemID int32,
) ([]Submission, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	subs := make([]Submission, 0)
	for _, sub := range s.db.submissions {
		if sub.UserID == userID && sub.ProblemID == problemID {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmittedAt.Before(subs[j].SubmittedAt) })
	return subs, nil
}

func (s *memSubmissionStore) ListSubmissions(
	_ context.Context,
	filter SubmissionFilter,
) ([]Submission, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	subs := make([]Submission, 0)
	for _, sub := range s.db.submissions {
		if filter.ContestID != nil && (sub.ContestID == nil || *sub.ContestID != *filter.ContestID) {
			continue
		}
		if filter.UserID != nil && sub.UserID != *filter.UserID {
			continue
		}
		if filter.ProblemID != nil && sub.ProblemID != *filter.ProblemID {
			continue
		}
		if filter.Verdict != "" && !strings.EqualFold(sub.Verdict, filter.Verdict) {
			continue
		}
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmittedAt.After(subs[j].SubmittedAt) })

	start := int(filter.Offset)
	if start > len(subs) {
		start = len(subs)
	}
	end := len(subs)
	if filter.Limit > 0 && start+int(filter.Limit) < end {
		end = start + int(filter.Limit)
	}
	return subs[start:end], nil
}

type memUserStore struct {
	db *memDB
}

func (s *memUserStore) GetUserByID(_ context.Context, id uuid.UUID) (User, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return User{}, xjudge_errors.ErrNotFound
	}
	return u, nil
}

func (s *memUserStore) GetUserByHandle(_ context.Context, handle string) (User, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	for _, u := range s.db.users {
		if u.Handle == handle {
			return u, nil
		}
	}
	return User{}, xjudge_errors.ErrNotFound
}

func (s *memUserStore) CreateUser(_ context.Context, user User) (User, error) {
	s.db.mutex.Lock()
	defer s.db.mutex.Unlock()

	for _, u := range s.db.users {
		if u.Handle == user.Handle {
			return User{}, fmt.Errorf(
				"%w, user with handle %s already exist",
				xjudge_errors.ErrEntityAlreadyExist,
				user.Handle,
			)
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.AttemptedCount = 0
	user.SolvedCount = 0
	s.db.users[user.ID] = user
	return user, nil
}

func (s *memUserStore) IncrementAttemptedCount(_ context.Context, id uuid.UUID) error {
	return s.increment(id, func(u *User) { u.AttemptedCount++ })
}

func (s *memUserStore) IncrementSolvedCount(_ context.Context, id uuid.UUID) error {
	return s.increment(id, func(u *User) { u.SolvedCount++ })
}

func (s *memUserStore) increment(id uuid.UUID, apply func(*User)) error {
	s.db.mutex.Lock()
	defer s.db.mutex.Unlock()

	u, ok := s.db.users[id]
	if !ok {
		return xjudge_errors.ErrNotFound
	}
	apply(&u)
	s.db.users[id] = u
	return nil
}

type memContestStore struct {
	db *memDB
}

func (s *memContestStore) GetContestByID(_ context.Context, id uuid.UUID) (Contest, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	c, ok := s.db.contests[id]
	if !ok {
		return Contest{}, xjudge_errors.ErrNotFound
	}
	return c, nil
}

func (s *memContestStore) CreateContest(_ context.Context, c Contest) (Contest, error) {
	s.db.mutex.Lock()
	defer s.db.mutex.Unlock()

	if _, exists := s.db.contests[c.ID]; exists {
		return Contest{}, xjudge_errors.ErrEntityAlreadyExist
	}
	s.db.contests[c.ID] = c
	return c, nil
}

func (s *memContestStore) UpdateContest(_ context.Context, c Contest) (Contest, error) {
	s.db.mutex.Lock()
	defer s.db.mutex.Unlock()

	if _, ok := s.db.contests[c.ID]; !ok {
		return Contest{}, xjudge_errors.ErrNotFound
	}
	s.db.contests[c.ID] = c
	return c, nil
}

func (s *memContestStore) DeleteContest(_ context.Context, id uuid.UUID) error {
	s.db.mutex.Lock()
	defer s.db.mutex.Unlock()

	if _, ok := s.db.contests[id]; !ok {
		return xjudge_errors.ErrNotFound
	}
	delete(s.db.contests, id)
	delete(s.db.participants, id)
	return nil
}

func (s *memContestStore) AddParticipant(_ context.Context, contestID, userID uuid.UUID) error {
	s.db.mutex.Lock()
	defer s.db.mutex.Unlock()

	if _, ok := s.db.contests[contestID]; !ok {
		return xjudge_errors.ErrNotFound
	}
	if s.db.participants[contestID] == nil {
		s.db.participants[contestID] = make(map[uuid.UUID]bool)
	}
	s.db.participants[contestID][userID] = true
	return nil
}

func (s *memContestStore) IsParticipant(_ context.Context, contestID, userID uuid.UUID) (bool, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()
	return s.db.participants[contestID][userID], nil
}

func (s *memContestStore) ListParticipants(_ context.Context, contestID uuid.UUID) ([]uuid.UUID, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	participants := make([]uuid.UUID, 0, len(s.db.participants[contestID]))
	for userID := range s.db.participants[contestID] {
		participants = append(participants, userID)
	}
	return participants, nil
}

type memGroupStore struct {
	db *memDB
}

func (s *memGroupStore) CreateGroup(_ context.Context, g Group) (Group, error) {
	s.db.mutex.Lock()
	defer s.db.mutex.Unlock()

	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	s.db.groups[g.ID] = g
	return g, nil
}

func (s *memGroupStore) GetGroupByID(_ context.Context, id uuid.UUID) (Group, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	g, ok := s.db.groups[id]
	if !ok {
		return Group{}, xjudge_errors.ErrNotFound
	}
	return g, nil
}

func (s *memGroupStore) GetUserGroup(_ context.Context, userID, groupID uuid.UUID) (UserGroup, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	role, ok := s.db.userGroups[groupID][userID]
	if !ok {
		return UserGroup{}, xjudge_errors.ErrNotFound
	}
	return UserGroup{UserID: userID, GroupID: groupID, Role: role}, nil
}

func (s *memGroupStore) AddUserGroup(_ context.Context, ug UserGroup) error {
	s.db.mutex.Lock()
	defer s.db.mutex.Unlock()

	if _, exists := s.db.userGroups[ug.GroupID][ug.UserID]; exists {
		return xjudge_errors.ErrEntityAlreadyExist
	}
	if s.db.userGroups[ug.GroupID] == nil {
		s.db.userGroups[ug.GroupID] = make(map[uuid.UUID]GroupRole)
	}
	s.db.userGroups[ug.GroupID][ug.UserID] = ug.Role
	return nil
}

func (s *memGroupStore) CreateInvitation(_ context.Context, inv Invitation) (Invitation, error) {
	s.db.mutex.Lock()
	defer s.db.mutex.Unlock()

	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	s.db.invitations[inv.ID] = inv
	return inv, nil
}

func (s *memGroupStore) HasPendingInvitation(_ context.Context, groupID, receiverID uuid.UUID) (bool, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	for _, inv := range s.db.invitations {
		if inv.GroupID == groupID && inv.ReceiverID == receiverID && inv.Status == InvitationPending {
			return true, nil
		}
	}
	return false, nil
}
