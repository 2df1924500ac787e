package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"aits/internal/auth"
	"aits/internal/model"
	"aits/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDAndRole(ctx context.Context, id uint, role model.Role) (*model.User, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindWithProfile(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateWithProfile(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockIssueRepository is a mock implementation of IssueRepository.
type MockIssueRepository struct {
	mock.Mock
}

func (m *MockIssueRepository) Create(ctx context.Context, issue *model.Issue) error {
	args := m.Called(ctx, issue)
	return args.Error(0)
}

func (m *MockIssueRepository) FindByID(ctx context.Context, id uint) (*model.Issue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Issue), args.Error(1)
}

func (m *MockIssueRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Issue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Issue), args.Error(1)
}

func (m *MockIssueRepository) ListBySubmitter(ctx context.Context, studentID uint) ([]model.Issue, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Issue), args.Error(1)
}

func (m *MockIssueRepository) ListBySubmitterAndStatus(ctx context.Context, studentID uint, status model.IssueStatus) ([]model.Issue, error) {
	args := m.Called(ctx, studentID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Issue), args.Error(1)
}

func (m *MockIssueRepository) Counts(ctx context.Context) (model.IssueCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.IssueCounts), args.Error(1)
}

func (m *MockIssueRepository) UpdateLifecycle(ctx context.Context, issue *model.Issue) error {
	args := m.Called(ctx, issue)
	return args.Error(0)
}

// WithTransaction runs fn against the mock itself once the expectation allows it.
func (m *MockIssueRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.IssueRepository) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m)
}

// MockTokenService is a mock implementation of auth.TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(ctx context.Context, sub auth.Subject) (auth.TokenPair, error) {
	args := m.Called(ctx, sub)
	return args.Get(0).(auth.TokenPair), args.Error(1)
}

func (m *MockTokenService) Verify(accessToken string) (*auth.Claims, error) {
	args := m.Called(accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

func (m *MockTokenService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Revoke(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}
