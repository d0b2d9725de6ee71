package profile

import (
	"github.com/google/uuid"
)

// Stats aggregates lifetime quiz counters for one user.
type Stats struct {
	TotalQuizzes           int `json:"total_quizzes"`
	TotalScore             int `json:"total_score"`
	TotalQuestionsAnswered int `json:"total_questions_answered"`
	TotalCorrect           int `json:"total_correct"`
}

// User is the profile record. Friends is symmetric: a appears in b's set
// iff b appears in a's.
type User struct {
	ID               uuid.UUID   `json:"id"`
	Email            string      `json:"email"`
	FullName         string      `json:"full_name"`
	Username         string      `json:"username"`
	Avatar           string      `json:"avatar,omitempty"`
	EnrolledSubjects []string    `json:"enrolled_subjects"`
	Friends          []uuid.UUID `json:"friends"`
	IsOnline         bool        `json:"is_online"`
	Stats            Stats       `json:"stats"`
}

// Enrolled reports whether the user is enrolled in the subject.
func (u *User) Enrolled(subjectID string) bool {
	for _, id := range u.EnrolledSubjects {
		if id == subjectID {
			return true
		}
	}
	return false
}

// HasFriend reports whether other is in the user's friend set.
func (u *User) HasFriend(other uuid.UUID) bool {
	for _, id := range u.Friends {
		if id == other {
			return true
		}
	}
	return false
}
