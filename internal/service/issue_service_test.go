package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "aits/internal/errors"
	"aits/internal/model"
	"aits/internal/workflow"
)

var (
	studentActor   = workflow.Actor{ID: 1, Username: "alice", Role: model.RoleStudent}
	lecturerActor  = workflow.Actor{ID: 2, Username: "bob", Role: model.RoleLecturer}
	registrarActor = workflow.Actor{ID: 3, Username: "rita", Role: model.RoleRegistrar}
)

func newTestIssueService(issues *MockIssueRepository, users *MockUserRepository) *issueService {
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := NewIssueService(issues, users).(*issueService)
	svc.now = func() time.Time { return fixed }
	return svc
}

func TestIssueService_Create(t *testing.T) {
	tests := []struct {
		name      string
		actor     workflow.Actor
		input     CreateIssueInput
		setupMock func(*MockIssueRepository)
		wantErr   error
	}{
		{
			name:  "student submits a pending issue",
			actor: studentActor,
			input: CreateIssueInput{Title: "projector broken", Description: "room 4"},
			setupMock: func(m *MockIssueRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(i *model.Issue) bool {
					return i.SubmittedByID == 1 &&
						i.Status == model.IssueStatusPending &&
						i.Category == model.IssueCategoryOther &&
						i.AssignedLecturerID == nil
				})).Return(nil)
			},
		},
		{
			name:      "lecturer cannot submit",
			actor:     lecturerActor,
			input:     CreateIssueInput{Title: "t", Description: "d"},
			setupMock: func(m *MockIssueRepository) {},
			wantErr:   apperrors.ErrForbidden,
		},
		{
			name:      "registrar cannot submit",
			actor:     registrarActor,
			input:     CreateIssueInput{Title: "t", Description: "d"},
			setupMock: func(m *MockIssueRepository) {},
			wantErr:   apperrors.ErrForbidden,
		},
		{
			name:  "store failure is a creation error",
			actor: studentActor,
			input: CreateIssueInput{Title: "t", Description: "d", Category: model.IssueCategoryAppeal},
			setupMock: func(m *MockIssueRepository) {
				m.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
			},
			wantErr: apperrors.ErrCreation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := new(MockIssueRepository)
			tt.setupMock(issues)

			svc := newTestIssueService(issues, new(MockUserRepository))
			issue, err := svc.Create(context.Background(), tt.actor, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, issue)
				if errors.Is(tt.wantErr, apperrors.ErrForbidden) {
					issues.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, model.IssueStatusPending, issue.Status)
			}
			issues.AssertExpectations(t)
		})
	}
}

func TestIssueService_Assign(t *testing.T) {
	lecturer := &model.User{ID: 2, Username: "bob", Role: model.RoleLecturer}
	pending := func() *model.Issue {
		return &model.Issue{ID: 10, SubmittedByID: 1, Status: model.IssueStatusPending}
	}

	tests := []struct {
		name       string
		actor      workflow.Actor
		lecturerID uint
		setupMock  func(*MockIssueRepository, *MockUserRepository)
		wantErr    error
	}{
		{
			name:       "registrar assigns a pending issue",
			actor:      registrarActor,
			lecturerID: 2,
			setupMock: func(i *MockIssueRepository, u *MockUserRepository) {
				i.On("FindByID", mock.Anything, uint(10)).Return(pending(), nil)
				u.On("FindByIDAndRole", mock.Anything, uint(2), model.RoleLecturer).Return(lecturer, nil)
				i.On("WithTransaction", mock.Anything).Return(nil)
				i.On("FindByIDForUpdate", mock.Anything, uint(10)).Return(pending(), nil)
				i.On("UpdateLifecycle", mock.Anything, mock.MatchedBy(func(is *model.Issue) bool {
					return is.Status == model.IssueStatusAssigned &&
						is.AssignedLecturerID != nil && *is.AssignedLecturerID == 2 &&
						is.AssignedAt != nil
				})).Return(nil)
			},
		},
		{
			name:       "student is forbidden before any lookup",
			actor:      studentActor,
			lecturerID: 2,
			setupMock:  func(i *MockIssueRepository, u *MockUserRepository) {},
			wantErr:    apperrors.ErrForbidden,
		},
		{
			name:       "lecturer is forbidden even for a missing issue",
			actor:      lecturerActor,
			lecturerID: 2,
			setupMock:  func(i *MockIssueRepository, u *MockUserRepository) {},
			wantErr:    apperrors.ErrForbidden,
		},
		{
			name:       "missing lecturer id",
			actor:      registrarActor,
			lecturerID: 0,
			setupMock:  func(i *MockIssueRepository, u *MockUserRepository) {},
			wantErr:    apperrors.ErrLecturerIDRequired,
		},
		{
			name:       "missing issue is reported before lecturer",
			actor:      registrarActor,
			lecturerID: 99,
			setupMock: func(i *MockIssueRepository, u *MockUserRepository) {
				i.On("FindByID", mock.Anything, uint(10)).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrIssueNotFound,
		},
		{
			name:       "target is a student",
			actor:      registrarActor,
			lecturerID: 1,
			setupMock: func(i *MockIssueRepository, u *MockUserRepository) {
				i.On("FindByID", mock.Anything, uint(10)).Return(pending(), nil)
				u.On("FindByIDAndRole", mock.Anything, uint(1), model.RoleLecturer).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrLecturerNotFound,
		},
		{
			name:       "resolved issue cannot be reassigned",
			actor:      registrarActor,
			lecturerID: 2,
			setupMock: func(i *MockIssueRepository, u *MockUserRepository) {
				resolved := &model.Issue{ID: 10, Status: model.IssueStatusResolved}
				i.On("FindByID", mock.Anything, uint(10)).Return(resolved, nil)
				u.On("FindByIDAndRole", mock.Anything, uint(2), model.RoleLecturer).Return(lecturer, nil)
				i.On("WithTransaction", mock.Anything).Return(nil)
				i.On("FindByIDForUpdate", mock.Anything, uint(10)).Return(resolved, nil)
			},
			wantErr: apperrors.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := new(MockIssueRepository)
			users := new(MockUserRepository)
			tt.setupMock(issues, users)

			svc := newTestIssueService(issues, users)
			issue, err := svc.Assign(context.Background(), tt.actor, 10, tt.lecturerID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, issue)
				issues.AssertNotCalled(t, "UpdateLifecycle", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, model.IssueStatusAssigned, issue.Status)
				assert.Equal(t, uint(2), *issue.AssignedLecturerID)
			}
			issues.AssertExpectations(t)
			users.AssertExpectations(t)
		})
	}
}

func TestIssueService_Resolve(t *testing.T) {
	bobID := uint(2)
	otherID := uint(5)

	tests := []struct {
		name      string
		actor     workflow.Actor
		setupMock func(*MockIssueRepository)
		wantErr   error
	}{
		{
			name:  "assigned lecturer resolves",
			actor: lecturerActor,
			setupMock: func(m *MockIssueRepository) {
				m.On("WithTransaction", mock.Anything).Return(nil)
				m.On("FindByIDForUpdate", mock.Anything, uint(10)).
					Return(&model.Issue{ID: 10, Status: model.IssueStatusAssigned, AssignedLecturerID: &bobID}, nil)
				m.On("UpdateLifecycle", mock.Anything, mock.MatchedBy(func(is *model.Issue) bool {
					return is.Status == model.IssueStatusResolved && is.ResolvedAt != nil
				})).Return(nil)
			},
		},
		{
			name:      "registrar is forbidden",
			actor:     registrarActor,
			setupMock: func(m *MockIssueRepository) {},
			wantErr:   apperrors.ErrForbidden,
		},
		{
			name:  "other lecturer is forbidden",
			actor: lecturerActor,
			setupMock: func(m *MockIssueRepository) {
				m.On("WithTransaction", mock.Anything).Return(nil)
				m.On("FindByIDForUpdate", mock.Anything, uint(10)).
					Return(&model.Issue{ID: 10, Status: model.IssueStatusAssigned, AssignedLecturerID: &otherID}, nil)
			},
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:  "pending issue cannot be resolved",
			actor: lecturerActor,
			setupMock: func(m *MockIssueRepository) {
				m.On("WithTransaction", mock.Anything).Return(nil)
				m.On("FindByIDForUpdate", mock.Anything, uint(10)).
					Return(&model.Issue{ID: 10, Status: model.IssueStatusPending}, nil)
			},
			wantErr: apperrors.ErrInvalidTransition,
		},
		{
			name:  "already resolved",
			actor: lecturerActor,
			setupMock: func(m *MockIssueRepository) {
				m.On("WithTransaction", mock.Anything).Return(nil)
				m.On("FindByIDForUpdate", mock.Anything, uint(10)).
					Return(&model.Issue{ID: 10, Status: model.IssueStatusResolved, AssignedLecturerID: &bobID}, nil)
			},
			wantErr: apperrors.ErrInvalidTransition,
		},
		{
			name:  "other lecturer on resolved issue is forbidden",
			actor: lecturerActor,
			setupMock: func(m *MockIssueRepository) {
				m.On("WithTransaction", mock.Anything).Return(nil)
				m.On("FindByIDForUpdate", mock.Anything, uint(10)).
					Return(&model.Issue{ID: 10, Status: model.IssueStatusResolved, AssignedLecturerID: &otherID}, nil)
			},
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:  "missing issue",
			actor: lecturerActor,
			setupMock: func(m *MockIssueRepository) {
				m.On("WithTransaction", mock.Anything).Return(nil)
				m.On("FindByIDForUpdate", mock.Anything, uint(10)).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrIssueNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := new(MockIssueRepository)
			tt.setupMock(issues)

			svc := newTestIssueService(issues, new(MockUserRepository))
			issue, err := svc.Resolve(context.Background(), tt.actor, 10)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, issue)
				issues.AssertNotCalled(t, "UpdateLifecycle", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, model.IssueStatusResolved, issue.Status)
			}
			issues.AssertExpectations(t)
		})
	}
}

func TestIssueService_Listings(t *testing.T) {
	issues := new(MockIssueRepository)
	issues.On("ListBySubmitter", mock.Anything, uint(1)).Return([]model.Issue{{ID: 1}, {ID: 2}}, nil)
	issues.On("ListBySubmitterAndStatus", mock.Anything, uint(1), model.IssueStatusResolved).Return([]model.Issue{{ID: 2}}, nil)
	issues.On("Counts", mock.Anything).Return(model.IssueCounts{Total: 2, Resolved: 1, Pending: 1}, nil)

	svc := newTestIssueService(issues, new(MockUserRepository))
	ctx := context.Background()

	mine, err := svc.ListMine(ctx, studentActor)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	resolved, err := svc.ListResolved(ctx, studentActor)
	require.NoError(t, err)
	assert.Len(t, resolved, 1)

	counts, err := svc.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Total)

	issues.AssertExpectations(t)
}

func TestIssueService_GetMissing(t *testing.T) {
	issues := new(MockIssueRepository)
	issues.On("FindByID", mock.Anything, uint(42)).Return(nil, gorm.ErrRecordNotFound)

	svc := newTestIssueService(issues, new(MockUserRepository))
	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrIssueNotFound)
}
