package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JudgeType identifies a supported remote judge. It is the dispatch key
// for every judge-specific strategy in the system.
type JudgeType string

const (
	JudgeAtCoder    JudgeType = "atcoder"
	JudgeSpoj       JudgeType = "spoj"
	JudgeCodeforces JudgeType = "codeforces"
)

func (j JudgeType) Valid() bool {
	switch j {
	case JudgeAtCoder, JudgeSpoj, JudgeCodeforces:
		return true
	}
	return false
}

// Value is the content of a section together with its format tag.
type Value struct {
	Format  string `json:"format"`
	Content string `json:"content"`
}

// Section is an ordered, named content block of a problem statement.
// Sections are created atomically with their parent problem and are
// immutable afterwards.
type Section struct {
	Title string `json:"title"`
	Value Value  `json:"value"`
}

// Property is a key/value metadata row on a problem, e.g.
// "Time Limit" -> "2 sec".
type Property struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Spoiler bool   `json:"spoiler"`
}

type Problem struct {
	ID               int32      `json:"id"`
	Judge            JudgeType  `json:"judge"`
	Code             string     `json:"code"`
	Title            string     `json:"title"`
	ProblemLink      string     `json:"problem_link"`
	ContestName      string     `json:"contest_name"`
	ContestLink      string     `json:"contest_link"`
	DescriptionRoute string     `json:"description_route"`
	PrependHTML      string     `json:"prepend_html"`
	Sections         []Section  `json:"sections"`
	Properties       []Property `json:"properties"`
	SolvedCount      int64      `json:"solved_count"`
}

type Compiler struct {
	ID      int32     `json:"id"`
	IDValue string    `json:"id_value"`
	Name    string    `json:"name"`
	Judge   JudgeType `json:"judge"`
}

type Submission struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	ProblemID   int32      `json:"problem_id"`
	ContestID   *uuid.UUID `json:"contest_id"`
	CompilerID  int32      `json:"compiler_id"`
	Judge       JudgeType  `json:"judge"`
	Solution    string     `json:"solution,omitempty"`
	RemoteRunID string     `json:"remote_run_id"`
	Status      string     `json:"status"`
	Verdict     string     `json:"verdict"`
	TimeUsage   string     `json:"time_usage"`
	MemoryUsage string     `json:"memory_usage"`
	IsOpen      bool       `json:"is_open"`
	SubmittedAt time.Time  `json:"submitted_at"`
}

// SubmissionResult carries the fields a submission adapter reports back.
// They are merged into the persisted submission, never replacing the
// identity and ownership set at creation.
type SubmissionResult struct {
	RemoteRunID string
	Status      string
	Verdict     string
	TimeUsage   string
	MemoryUsage string
}

type User struct {
	ID             uuid.UUID `json:"id"`
	Handle         string    `json:"handle"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	AttemptedCount int64     `json:"attempted_count"`
	SolvedCount    int64     `json:"solved_count"`
}

type ContestType string

type ContestVisibility string

const (
	ContestClassic ContestType = "CLASSIC"
	ContestGroup   ContestType = "GROUP"

	VisibilityPublic  ContestVisibility = "PUBLIC"
	VisibilityPrivate ContestVisibility = "PRIVATE"
)

// ContestProblem aliases a problem inside a contest under a short
// hashtag ("A", "B", ...).
type ContestProblem struct {
	ProblemID int32  `json:"problem_id"`
	Hashtag   string `json:"hashtag"`
}

type Contest struct {
	ID             uuid.UUID         `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	BeginTime      time.Time         `json:"begin_time"`
	Length         time.Duration     `json:"length"`
	Type           ContestType       `json:"type"`
	Visibility     ContestVisibility `json:"visibility"`
	HashedPassword *string           `json:"-"`
	OwnerID        uuid.UUID         `json:"owner_id"`
	GroupID        *uuid.UUID        `json:"group_id"`
	Problems       []ContestProblem  `json:"problems"`
}

func (c Contest) EndTime() time.Time {
	return c.BeginTime.Add(c.Length)
}

type GroupRole string

const (
	RoleLeader  GroupRole = "LEADER"
	RoleManager GroupRole = "MANAGER"
	RoleMember  GroupRole = "MEMBER"
)

type Group struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
}

type UserGroup struct {
	UserID  uuid.UUID `json:"user_id"`
	GroupID uuid.UUID `json:"group_id"`
	Role    GroupRole `json:"role"`
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationDeclined InvitationStatus = "DECLINED"
)

type Invitation struct {
	ID         uuid.UUID        `json:"id"`
	GroupID    uuid.UUID        `json:"group_id"`
	InviterID  uuid.UUID        `json:"inviter_id"`
	ReceiverID uuid.UUID        `json:"receiver_id"`
	Status     InvitationStatus `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
}

// ProblemFilter narrows problem listings. Zero values match everything.
type ProblemFilter struct {
	Judge       JudgeType
	Code        string
	Title       string
	ContestName string
	Limit       int32
	Offset      int32
}

// SubmissionFilter narrows contest status listings.
type SubmissionFilter struct {
	ContestID *uuid.UUID
	UserID    *uuid.UUID
	ProblemID *int32
	Verdict   string
	Limit     int32
	Offset    int32
}

type ProblemStore interface {
	// GetProblemByJudgeAndCode returns ErrNotFound when the problem has
	// not been scraped yet.
	GetProblemByJudgeAndCode(ctx context.Context, judge JudgeType, code string) (Problem, error)
	GetProblemByID(ctx context.Context, id int32) (Problem, error)
	// CreateProblem persists the problem together with its sections and
	// properties as one atomic write and returns it with its id set.
	CreateProblem(ctx context.Context, problem Problem) (Problem, error)
	ListProblems(ctx context.Context, filter ProblemFilter) ([]Problem, int64, error)
	IncrementProblemSolvedCount(ctx context.Context, id int32) error
}

type CompilerStore interface {
	CreateCompiler(ctx context.Context, compiler Compiler) (Compiler, error)
	GetCompilerByIDValue(ctx context.Context, idValue string) (Compiler, error)
	ListCompilersByJudge(ctx context.Context, judge JudgeType) ([]Compiler, error)
}

type SubmissionStore interface {
	CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
	GetSubmissionByID(ctx context.Context, id uuid.UUID) (Submission, error)
	// MergeSubmissionResult applies the remote judge's result fields onto
	// the stored submission and returns the merged record.
	MergeSubmissionResult(ctx context.Context, id uuid.UUID, result SubmissionResult) (Submission, error)
	ListSubmissionsByUserAndProblem(ctx context.Context, userID uuid.UUID, problemID int32) ([]Submission, error)
	ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]Submission, error)
}

type UserStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByHandle(ctx context.Context, handle string) (User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	IncrementAttemptedCount(ctx context.Context, id uuid.UUID) error
	IncrementSolvedCount(ctx context.Context, id uuid.UUID) error
}

type ContestStore interface {
	GetContestByID(ctx context.Context, id uuid.UUID) (Contest, error)
	CreateContest(ctx context.Context, contest Contest) (Contest, error)
	UpdateContest(ctx context.Context, contest Contest) (Contest, error)
	DeleteContest(ctx context.Context, id uuid.UUID) error
	AddParticipant(ctx context.Context, contestID, userID uuid.UUID) error
	IsParticipant(ctx context.Context, contestID, userID uuid.UUID) (bool, error)
	ListParticipants(ctx context.Context, contestID uuid.UUID) ([]uuid.UUID, error)
}

type GroupStore interface {
	CreateGroup(ctx context.Context, group Group) (Group, error)
	GetGroupByID(ctx context.Context, id uuid.UUID) (Group, error)
	GetUserGroup(ctx context.Context, userID, groupID uuid.UUID) (UserGroup, error)
	AddUserGroup(ctx context.Context, ug UserGroup) error
	CreateInvitation(ctx context.Context, inv Invitation) (Invitation, error)
	HasPendingInvitation(ctx context.Context, groupID, receiverID uuid.UUID) (bool, error)
}

// Store bundles every aggregate boundary for wiring convenience.
type Store struct {
	Problems    ProblemStore
	Compilers   CompilerStore
	Submissions SubmissionStore
	Users       UserStore
	Contests    ContestStore
	Groups      GroupStore
}
