package repository

import (
	"context"

	"gorm.io/gorm"

	"aits/internal/model"
)

// UserRepository defines user and profile persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByIDAndRole(ctx context.Context, id uint, role model.Role) (*model.User, error)
	FindWithProfile(ctx context.Context, id uint) (*model.User, error)
	UpdateWithProfile(ctx context.Context, user *model.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user together with whichever profile is attached.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIDAndRole(ctx context.Context, id uint, role model.Role) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ? AND role = ?", id, role).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindWithProfile loads the user and its profile relations.
func (r *userRepository) FindWithProfile(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("StudentProfile").
		Preload("LecturerProfile").
		Preload("RegistrarProfile").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateWithProfile saves the editable user columns and the attached
// profile in one transaction. Role and username are never written.
func (r *userRepository) UpdateWithProfile(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{ID: user.ID}).
			Select("email", "first_name", "last_name").
			Updates(user).Error; err != nil {
			return err
		}

		switch {
		case user.StudentProfile != nil:
			return tx.Model(user.StudentProfile).
				Select("student_number", "programme", "year_of_study").
				Updates(user.StudentProfile).Error
		case user.LecturerProfile != nil:
			return tx.Model(user.LecturerProfile).
				Select("staff_number", "department").
				Updates(user.LecturerProfile).Error
		case user.RegistrarProfile != nil:
			return tx.Model(user.RegistrarProfile).
				Select("staff_number", "college").
				Updates(user.RegistrarProfile).Error
		}
		return nil
	})
}
