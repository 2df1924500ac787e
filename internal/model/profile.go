package model

import "time"

// StudentProfile holds student-only attributes.
type StudentProfile struct {
	ID            uint      `json:"-" gorm:"primaryKey"`
	UserID        uint      `json:"-" gorm:"uniqueIndex;not null"`
	StudentNumber string    `json:"student_number" gorm:"size:50;not null"`
	Programme     string    `json:"programme" gorm:"size:255"`
	YearOfStudy   int       `json:"year_of_study"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// LecturerProfile holds lecturer-only attributes.
type LecturerProfile struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	UserID      uint      `json:"-" gorm:"uniqueIndex;not null"`
	StaffNumber string    `json:"staff_number" gorm:"size:50;not null"`
	Department  string    `json:"department" gorm:"size:255"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// RegistrarProfile holds registrar-only attributes.
type RegistrarProfile struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	UserID      uint      `json:"-" gorm:"uniqueIndex;not null"`
	StaffNumber string    `json:"staff_number" gorm:"size:50;not null"`
	College     string    `json:"college" gorm:"size:255"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// Profile is the role-agnostic view of a user together with its one profile.
// Only the field matching User.Role is set.
type Profile struct {
	User      UserView          `json:"user"`
	Student   *StudentProfile   `json:"student,omitempty"`
	Lecturer  *LecturerProfile  `json:"lecturer,omitempty"`
	Registrar *RegistrarProfile `json:"registrar,omitempty"`
}
