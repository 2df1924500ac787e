package model

import "time"

// IssueStatus represents where an issue is in its lifecycle.
type IssueStatus string

const (
	IssueStatusPending  IssueStatus = "pending"
	IssueStatusAssigned IssueStatus = "assigned"
	IssueStatusResolved IssueStatus = "resolved"
)

// Valid reports whether s is one of the known statuses.
func (s IssueStatus) Valid() bool {
	switch s {
	case IssueStatusPending, IssueStatusAssigned, IssueStatusResolved:
		return true
	default:
		return false
	}
}

// IssueCategory classifies what a student is asking about.
type IssueCategory string

const (
	IssueCategoryMissingMarks IssueCategory = "missing_marks"
	IssueCategoryAppeal       IssueCategory = "appeal"
	IssueCategoryCorrection   IssueCategory = "correction"
	IssueCategoryOther        IssueCategory = "other"
)

// Issue represents a support request raised by a student.
type Issue struct {
	ID                 uint          `json:"id" gorm:"primaryKey"`
	SubmittedByID      uint          `json:"submitted_by" gorm:"not null;index"`
	Title              string        `json:"title" gorm:"size:255;not null"`
	Description        string        `json:"description" gorm:"type:text;not null"`
	Category           IssueCategory `json:"category" gorm:"size:30;not null;default:'other'"`
	CourseCode         string        `json:"course_code,omitempty" gorm:"size:30"`
	Status             IssueStatus   `json:"status" gorm:"size:20;not null;default:'pending';index"`
	AssignedLecturerID *uint         `json:"assigned_lecturer" gorm:"index"`
	AssignedAt         *time.Time    `json:"assigned_at,omitempty"`
	ResolvedAt         *time.Time    `json:"resolved_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt          time.Time     `json:"updated_at"`

	// Relations
	SubmittedBy      *User `json:"-" gorm:"foreignKey:SubmittedByID"`
	AssignedLecturer *User `json:"-" gorm:"foreignKey:AssignedLecturerID"`
}

// IssueCounts aggregates issues over the whole store.
type IssueCounts struct {
	Total    int64 `json:"total_issues"`
	Resolved int64 `json:"resolved_issues"`
	Pending  int64 `json:"pending_issues"`
	Assigned int64 `json:"assigned_issues"`
}
