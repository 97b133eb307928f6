package domain

import "time"

// Status is the lifecycle position of a candidate record.
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusLoggedIn   Status = "Logged In"
	StatusCompleted  Status = "Completed"

	// InitialStatus is assigned to freshly provisioned records.
	InitialStatus = StatusNotStarted
)

// Rank orders statuses so callers can refuse regressions. Statuses reported
// by the scoring engine that are not known here rank as terminal.
func (s Status) Rank() int {
	switch s {
	case StatusNotStarted:
		return 0
	case StatusLoggedIn:
		return 1
	default:
		return 2
	}
}

// Open reports whether a record may still take a submission. Anything past
// Logged In, including statuses this service does not know, is closed.
func (s Status) Open() bool {
	return s.Rank() < StatusCompleted.Rank()
}

// OpenStatuses lists the statuses for which Open is true.
var OpenStatuses = []Status{StatusNotStarted, StatusLoggedIn}

// Advance returns next unless it would move the record backwards.
func (s Status) Advance(next Status) Status {
	if next == "" || next.Rank() < s.Rank() {
		return s
	}
	return next
}

// Record is the single test_results row kept per candidate.
type Record struct {
	ID                  string     `json:"id"`
	CandidateID         string     `json:"candidate_id"`
	Email               string     `json:"email"`
	Name                string     `json:"name"`
	Status              Status     `json:"status"`
	QuestionSetID       *string    `json:"question_set_id"`
	Score               *float64   `json:"score"`
	MaxScore            *float64   `json:"max_score"`
	Percentage          *float64   `json:"percentage"`
	TotalQuestions      *int       `json:"total_questions"`
	RawFeedback         *string    `json:"raw_feedback"`
	DurationUsedSeconds *int       `json:"duration_used_seconds"`
	DurationUsedMinutes *float64   `json:"duration_used_minutes"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	CompletedAt         *time.Time `json:"completed_at"`
}

// RecordPatch lists the columns an update may touch. Nil fields are left as they are.
type RecordPatch struct {
	Email               *string
	Name                *string
	Status              *Status
	QuestionSetID       *string
	Score               *float64
	MaxScore            *float64
	Percentage          *float64
	TotalQuestions      *int
	RawFeedback         *string
	DurationUsedSeconds *int
	DurationUsedMinutes *float64
	CompletedAt         *time.Time
	UpdatedAt           time.Time

	// OnlyIfOpen restricts the update to rows whose status is Open.
	OnlyIfOpen bool
}

// Apply copies the set fields of p onto r.
func (p RecordPatch) Apply(r *Record) {
	if p.Email != nil {
		r.Email = *p.Email
	}
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.QuestionSetID != nil {
		r.QuestionSetID = p.QuestionSetID
	}
	if p.Score != nil {
		r.Score = p.Score
	}
	if p.MaxScore != nil {
		r.MaxScore = p.MaxScore
	}
	if p.Percentage != nil {
		r.Percentage = p.Percentage
	}
	if p.TotalQuestions != nil {
		r.TotalQuestions = p.TotalQuestions
	}
	if p.RawFeedback != nil {
		r.RawFeedback = p.RawFeedback
	}
	if p.DurationUsedSeconds != nil {
		r.DurationUsedSeconds = p.DurationUsedSeconds
	}
	if p.DurationUsedMinutes != nil {
		r.DurationUsedMinutes = p.DurationUsedMinutes
	}
	if p.CompletedAt != nil {
		r.CompletedAt = p.CompletedAt
	}
	if !p.UpdatedAt.IsZero() {
		r.UpdatedAt = p.UpdatedAt
	}
}

// Identity is a candidate as known by the HR directory.
type Identity struct {
	Email       string `json:"email"`
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
}

// QuestionSet is read-only to this service.
type QuestionSet struct {
	ID string
	// ExpiresAt is kept as the store rendered it; see delivery.ParseExpiry.
	ExpiresAt *string
	// Duration in minutes.
	Duration *int
}

// Question is a stored question. Answer never leaves the service.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"-"`
}

// PublicQuestion is what a candidate is allowed to see.
type PublicQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Delivery is a question set ready to be taken.
type Delivery struct {
	Questions []PublicQuestion `json:"questions"`
	Duration  int              `json:"duration"`
	TestID    string           `json:"test_id"`
}

// SubmittedQuestion echoes a question back with the submission.
type SubmittedQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
	Answer   *string  `json:"answer,omitempty"`
}

// Submission is a candidate's answered test.
type Submission struct {
	QuestionSetID string              `json:"question_set_id"`
	Questions     []SubmittedQuestion `json:"questions"`
	Answers       []string            `json:"answers"`
	Languages     []string            `json:"languages,omitempty"`
	// DurationUsed is in seconds.
	DurationUsed *int   `json:"duration_used,omitempty"`
	CandidateID  string `json:"candidate_id,omitempty"`
}

// Evaluation is the scoring engine's verdict. Every field is optional.
type Evaluation struct {
	Score       *float64 `json:"score"`
	MaxScore    *float64 `json:"max_score"`
	Percentage  *float64 `json:"percentage"`
	Status      string   `json:"status"`
	RawFeedback string   `json:"raw_feedback"`
}

// ScoreResult is returned to the candidate after a submission.
type ScoreResult struct {
	Score        float64 `json:"score"`
	MaxScore     float64 `json:"max_score"`
	Percentage   float64 `json:"percentage"`
	Status       Status  `json:"status"`
	RawFeedback  string  `json:"raw_feedback"`
	ResultID     string  `json:"result_id"`
	DurationUsed *int    `json:"duration_used"`
}
