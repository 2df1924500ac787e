package model

import "time"

// User represents an authenticated member of the support desk.
// Exactly one profile relation is populated, selected by Role.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email        string    `json:"email" gorm:"size:255"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FirstName    string    `json:"first_name" gorm:"size:150"`
	LastName     string    `json:"last_name" gorm:"size:150"`
	Role         Role      `json:"role" gorm:"size:20;not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	StudentProfile   *StudentProfile   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	LecturerProfile  *LecturerProfile  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	RegistrarProfile *RegistrarProfile `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// UserView is the public display shape of a user.
type UserView struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// View returns the display shape of the user.
func (u *User) View() UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
