package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"aits/internal/model"
)

// IssueRepository defines issue persistence operations.
type IssueRepository interface {
	Create(ctx context.Context, issue *model.Issue) error
	FindByID(ctx context.Context, id uint) (*model.Issue, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Issue, error)
	ListBySubmitter(ctx context.Context, studentID uint) ([]model.Issue, error)
	ListBySubmitterAndStatus(ctx context.Context, studentID uint, status model.IssueStatus) ([]model.Issue, error)
	Counts(ctx context.Context) (model.IssueCounts, error)
	UpdateLifecycle(ctx context.Context, issue *model.Issue) error
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo IssueRepository) error) error
}

type issueRepository struct {
	db *gorm.DB
}

// NewIssueRepository creates a new issue repository.
func NewIssueRepository(db *gorm.DB) IssueRepository {
	return &issueRepository{db: db}
}

// Create creates a new issue.
func (r *issueRepository) Create(ctx context.Context, issue *model.Issue) error {
	return r.db.WithContext(ctx).Create(issue).Error
}

// FindByID finds an issue by ID.
func (r *issueRepository) FindByID(ctx context.Context, id uint) (*model.Issue, error) {
	var issue model.Issue
	if err := r.db.WithContext(ctx).First(&issue, id).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

// FindByIDForUpdate finds an issue by ID with a row-level lock.
// Only meaningful inside WithTransaction.
func (r *issueRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Issue, error) {
	var issue model.Issue
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&issue, id).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

// ListBySubmitter lists a student's issues, oldest first.
func (r *issueRepository) ListBySubmitter(ctx context.Context, studentID uint) ([]model.Issue, error) {
	issues := []model.Issue{}
	if err := r.db.WithContext(ctx).
		Where("submitted_by_id = ?", studentID).
		Order("created_at ASC, id ASC").
		Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

// ListBySubmitterAndStatus lists a student's issues in one status, oldest first.
func (r *issueRepository) ListBySubmitterAndStatus(ctx context.Context, studentID uint, status model.IssueStatus) ([]model.Issue, error) {
	issues := []model.Issue{}
	if err := r.db.WithContext(ctx).
		Where("submitted_by_id = ? AND status = ?", studentID, status).
		Order("created_at ASC, id ASC").
		Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

// Counts aggregates issues per status in a single grouped query.
func (r *issueRepository) Counts(ctx context.Context) (model.IssueCounts, error) {
	var rows []struct {
		Status model.IssueStatus
		Total  int64
	}
	if err := r.db.WithContext(ctx).Model(&model.Issue{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return model.IssueCounts{}, err
	}

	var counts model.IssueCounts
	for _, row := range rows {
		counts.Total += row.Total
		switch row.Status {
		case model.IssueStatusPending:
			counts.Pending = row.Total
		case model.IssueStatusAssigned:
			counts.Assigned = row.Total
		case model.IssueStatusResolved:
			counts.Resolved = row.Total
		}
	}
	return counts, nil
}

// UpdateLifecycle writes the status and assignment columns of an issue.
func (r *issueRepository) UpdateLifecycle(ctx context.Context, issue *model.Issue) error {
	return r.db.WithContext(ctx).Model(issue).
		Select("status", "assigned_lecturer_id", "assigned_at", "resolved_at").
		Updates(issue).Error
}

// WithTransaction executes a function within a database transaction.
func (r *issueRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo IssueRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &issueRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
