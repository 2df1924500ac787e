package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "aits/internal/errors"
	"aits/internal/metrics"
	"aits/internal/model"
	"aits/internal/repository"
	"aits/internal/workflow"
)

// CreateIssueInput carries the student-supplied fields of a new issue.
type CreateIssueInput struct {
	Title       string
	Description string
	Category    model.IssueCategory
	CourseCode  string
}

// IssueService drives the role-gated issue lifecycle.
type IssueService interface {
	Create(ctx context.Context, actor workflow.Actor, input CreateIssueInput) (*model.Issue, error)
	Assign(ctx context.Context, actor workflow.Actor, issueID, lecturerID uint) (*model.Issue, error)
	Resolve(ctx context.Context, actor workflow.Actor, issueID uint) (*model.Issue, error)
	Get(ctx context.Context, id uint) (*model.Issue, error)
	ListMine(ctx context.Context, actor workflow.Actor) ([]model.Issue, error)
	ListResolved(ctx context.Context, actor workflow.Actor) ([]model.Issue, error)
	Counts(ctx context.Context) (model.IssueCounts, error)
}

type issueService struct {
	issueRepo repository.IssueRepository
	userRepo  repository.UserRepository
	now       func() time.Time
}

// NewIssueService creates a new issue service.
func NewIssueService(issueRepo repository.IssueRepository, userRepo repository.UserRepository) IssueService {
	return &issueService{
		issueRepo: issueRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

// Create records a new pending issue owned by the acting student.
func (s *issueService) Create(ctx context.Context, actor workflow.Actor, input CreateIssueInput) (_ *model.Issue, err error) {
	defer func() { metrics.ObserveIssue(workflow.OpCreate.String(), err) }()

	if err := workflow.Authorize(actor, workflow.OpCreate); err != nil {
		return nil, err
	}

	status, err := workflow.Transition("", workflow.OpCreate)
	if err != nil {
		return nil, err
	}

	category := input.Category
	if category == "" {
		category = model.IssueCategoryOther
	}

	issue := &model.Issue{
		SubmittedByID: actor.ID,
		Title:         input.Title,
		Description:   input.Description,
		Category:      category,
		CourseCode:    input.CourseCode,
		Status:        status,
	}
	if err := s.issueRepo.Create(ctx, issue); err != nil {
		return nil, fmt.Errorf("%w: create issue: %v", apperrors.ErrCreation, err)
	}
	return issue, nil
}

// Assign hands an issue to a lecturer. The issue is looked up before the
// lecturer; nothing is written unless every check passes.
func (s *issueService) Assign(ctx context.Context, actor workflow.Actor, issueID, lecturerID uint) (_ *model.Issue, err error) {
	defer func() { metrics.ObserveIssue(workflow.OpAssign.String(), err) }()

	if err := workflow.Authorize(actor, workflow.OpAssign); err != nil {
		return nil, err
	}
	if lecturerID == 0 {
		return nil, apperrors.ErrLecturerIDRequired
	}

	if _, err := s.findIssue(ctx, s.issueRepo, issueID, false); err != nil {
		return nil, err
	}

	lecturer, err := s.userRepo.FindByIDAndRole(ctx, lecturerID, model.RoleLecturer)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLecturerNotFound
		}
		return nil, fmt.Errorf("find lecturer: %w", err)
	}

	var assigned *model.Issue
	err = s.issueRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.IssueRepository) error {
		issue, err := s.findIssue(ctx, repo, issueID, true)
		if err != nil {
			return err
		}

		next, err := workflow.Transition(issue.Status, workflow.OpAssign)
		if err != nil {
			return err
		}

		now := s.now()
		issue.Status = next
		issue.AssignedLecturerID = &lecturer.ID
		issue.AssignedAt = &now
		if err := repo.UpdateLifecycle(ctx, issue); err != nil {
			return fmt.Errorf("update issue: %w", err)
		}
		assigned = issue
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assigned, nil
}

// Resolve closes an issue on behalf of the lecturer it is assigned to.
func (s *issueService) Resolve(ctx context.Context, actor workflow.Actor, issueID uint) (_ *model.Issue, err error) {
	defer func() { metrics.ObserveIssue(workflow.OpResolve.String(), err) }()

	if err := workflow.Authorize(actor, workflow.OpResolve); err != nil {
		return nil, err
	}

	var resolved *model.Issue
	err = s.issueRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.IssueRepository) error {
		issue, err := s.findIssue(ctx, repo, issueID, true)
		if err != nil {
			return err
		}

		// A lecturer who is not the assignee learns nothing about the
		// issue's state.
		if issue.AssignedLecturerID != nil {
			if err := workflow.CheckResolver(actor, issue); err != nil {
				return err
			}
		}
		next, err := workflow.Transition(issue.Status, workflow.OpResolve)
		if err != nil {
			return err
		}
		if err := workflow.CheckResolver(actor, issue); err != nil {
			return err
		}

		now := s.now()
		issue.Status = next
		issue.ResolvedAt = &now
		if err := repo.UpdateLifecycle(ctx, issue); err != nil {
			return fmt.Errorf("update issue: %w", err)
		}
		resolved = issue
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

// Get returns a single issue.
func (s *issueService) Get(ctx context.Context, id uint) (*model.Issue, error) {
	return s.findIssue(ctx, s.issueRepo, id, false)
}

// ListMine lists the issues the caller submitted, oldest first.
func (s *issueService) ListMine(ctx context.Context, actor workflow.Actor) ([]model.Issue, error) {
	return s.issueRepo.ListBySubmitter(ctx, actor.ID)
}

// ListResolved lists the caller's submitted issues that have been resolved.
func (s *issueService) ListResolved(ctx context.Context, actor workflow.Actor) ([]model.Issue, error) {
	return s.issueRepo.ListBySubmitterAndStatus(ctx, actor.ID, model.IssueStatusResolved)
}

// Counts returns store-wide totals. Any authenticated role may read them.
func (s *issueService) Counts(ctx context.Context) (model.IssueCounts, error) {
	return s.issueRepo.Counts(ctx)
}

func (s *issueService) findIssue(ctx context.Context, repo repository.IssueRepository, id uint, forUpdate bool) (*model.Issue, error) {
	var (
		issue *model.Issue
		err   error
	)
	if forUpdate {
		issue, err = repo.FindByIDForUpdate(ctx, id)
	} else {
		issue, err = repo.FindByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIssueNotFound
		}
		return nil, fmt.Errorf("find issue: %w", err)
	}
	return issue, nil
}
