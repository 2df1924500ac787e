package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"aits/internal/cache"
	apperrors "aits/internal/errors"
	"aits/internal/model"
	"aits/internal/repository"
	"aits/internal/validation"
	"aits/internal/workflow"
)

// DefaultProfileCacheTTL is used when no TTL is configured.
const DefaultProfileCacheTTL = 5 * time.Minute

// UpdateProfileInput carries editable profile fields. An update replaces
// every field of the caller's kind; fields of other kinds are ignored.
type UpdateProfileInput struct {
	Email     string
	FirstName string
	LastName  string

	StudentNumber string
	Programme     string
	YearOfStudy   int

	StaffNumber string
	Department  string
	College     string
}

// UserService exposes the caller's own user and profile records.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.UserView, error)
	GetProfile(ctx context.Context, actor workflow.Actor, kind model.Role) (*model.Profile, error)
	UpdateProfile(ctx context.Context, actor workflow.Actor, kind model.Role, input UpdateProfileInput) (*model.Profile, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
	ttl   time.Duration
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client, ttl time.Duration) UserService {
	if ttl <= 0 {
		ttl = DefaultProfileCacheTTL
	}
	return &userService{repo: repo, cache: cache, ttl: ttl}
}

func (s *userService) userKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) profileKey(id uint) string {
	return fmt.Sprintf("profile:%d", id)
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.UserView, error) {
	if data, _ := s.cache.Get(ctx, s.userKey(id)); data != nil {
		var cached model.UserView
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	view := user.View()
	if payload, err := json.Marshal(view); err == nil {
		_ = s.cache.Set(ctx, s.userKey(id), payload, s.ttl)
	}
	return &view, nil
}

// GetProfile returns the caller's profile of the given kind. A kind other
// than the caller's own role has no profile.
func (s *userService) GetProfile(ctx context.Context, actor workflow.Actor, kind model.Role) (*model.Profile, error) {
	if kind != actor.Role {
		return nil, apperrors.ErrProfileNotFound
	}

	if data, _ := s.cache.Get(ctx, s.profileKey(actor.ID)); data != nil {
		var cached model.Profile
		if err := json.Unmarshal(data, &cached); err == nil && cached.User.Role == kind {
			return &cached, nil
		}
	}

	user, err := s.loadProfileOwner(ctx, actor.ID, kind)
	if err != nil {
		return nil, err
	}

	profile := buildProfile(user)
	if payload, err := json.Marshal(profile); err == nil {
		_ = s.cache.Set(ctx, s.profileKey(actor.ID), payload, s.ttl)
	}
	return profile, nil
}

// UpdateProfile applies input to the caller's profile of the given kind.
func (s *userService) UpdateProfile(ctx context.Context, actor workflow.Actor, kind model.Role, input UpdateProfileInput) (*model.Profile, error) {
	if kind != actor.Role {
		return nil, apperrors.ErrProfileNotFound
	}
	if err := requireProfileFields(kind, input); err != nil {
		return nil, err
	}

	user, err := s.loadProfileOwner(ctx, actor.ID, kind)
	if err != nil {
		return nil, err
	}

	user.Email = input.Email
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	switch kind {
	case model.RoleStudent:
		user.StudentProfile.StudentNumber = input.StudentNumber
		user.StudentProfile.Programme = input.Programme
		user.StudentProfile.YearOfStudy = input.YearOfStudy
	case model.RoleLecturer:
		user.LecturerProfile.StaffNumber = input.StaffNumber
		user.LecturerProfile.Department = input.Department
	case model.RoleRegistrar:
		user.RegistrarProfile.StaffNumber = input.StaffNumber
		user.RegistrarProfile.College = input.College
	}

	if err := s.repo.UpdateWithProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	// Invalidate cache
	_ = s.cache.Delete(ctx, s.profileKey(actor.ID))
	_ = s.cache.Delete(ctx, s.userKey(actor.ID))

	return buildProfile(user), nil
}

// requireProfileFields rejects an update that would blank the identifying
// number of the profile kind.
func requireProfileFields(kind model.Role, input UpdateProfileInput) error {
	errs := validation.Errors{}
	switch kind {
	case model.RoleStudent:
		if input.StudentNumber == "" {
			errs.Add("student_number", "This field is required.")
		}
	case model.RoleLecturer, model.RoleRegistrar:
		if input.StaffNumber == "" {
			errs.Add("staff_number", "This field is required.")
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (s *userService) loadProfileOwner(ctx context.Context, id uint, kind model.Role) (*model.User, error) {
	user, err := s.repo.FindWithProfile(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}
	if user.Role != kind || !hasProfile(user) {
		return nil, apperrors.ErrProfileNotFound
	}
	return user, nil
}

func hasProfile(user *model.User) bool {
	switch user.Role {
	case model.RoleStudent:
		return user.StudentProfile != nil
	case model.RoleLecturer:
		return user.LecturerProfile != nil
	case model.RoleRegistrar:
		return user.RegistrarProfile != nil
	default:
		return false
	}
}

func buildProfile(user *model.User) *model.Profile {
	profile := &model.Profile{User: user.View()}
	switch user.Role {
	case model.RoleStudent:
		profile.Student = user.StudentProfile
	case model.RoleLecturer:
		profile.Lecturer = user.LecturerProfile
	case model.RoleRegistrar:
		profile.Registrar = user.RegistrarProfile
	}
	return profile
}
