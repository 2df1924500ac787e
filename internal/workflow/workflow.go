// Package workflow holds the role gate and the issue state machine.
//
// Nothing in here touches storage, HTTP or tokens: callers pass the acting
// identity and the current issue state, and get back either the next state
// or the reason the request is refused.
package workflow

import (
	"fmt"

	apperrors "aits/internal/errors"
	"aits/internal/model"
)

// Operation is a role-gated action on an issue.
type Operation int

const (
	OpCreate Operation = iota + 1
	OpAssign
	OpResolve
)

func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpAssign:
		return "assign"
	case OpResolve:
		return "resolve"
	default:
		return fmt.Sprintf("operation(%d)", int(op))
	}
}

// Actor is the identity performing an operation, taken from token claims.
type Actor struct {
	ID       uint
	Username string
	Role     model.Role
}

// RequiredRole returns the single role allowed to perform op.
func RequiredRole(op Operation) (model.Role, error) {
	switch op {
	case OpCreate:
		return model.RoleStudent, nil
	case OpAssign:
		return model.RoleRegistrar, nil
	case OpResolve:
		return model.RoleLecturer, nil
	default:
		return "", fmt.Errorf("unknown %s", op)
	}
}

// Authorize checks the role gate for op. It must run before any lookup
// that could reveal whether a referenced record exists.
func Authorize(actor Actor, op Operation) error {
	required, err := RequiredRole(op)
	if err != nil {
		return err
	}
	if actor.Role != required {
		return apperrors.Forbidden(forbiddenReason(op))
	}
	return nil
}

func forbiddenReason(op Operation) string {
	switch op {
	case OpCreate:
		return "only students can submit issues"
	case OpAssign:
		return "only registrars can assign issues"
	case OpResolve:
		return "only lecturers can resolve issues"
	default:
		return "operation not permitted"
	}
}

// Transition returns the status an issue moves to when op is applied in
// state from. Resolved is terminal.
func Transition(from model.IssueStatus, op Operation) (model.IssueStatus, error) {
	switch op {
	case OpCreate:
		return model.IssueStatusPending, nil
	case OpAssign:
		switch from {
		case model.IssueStatusPending, model.IssueStatusAssigned:
			return model.IssueStatusAssigned, nil
		case model.IssueStatusResolved:
			return "", &apperrors.TransitionError{Reason: "resolved issues cannot be reassigned"}
		}
	case OpResolve:
		switch from {
		case model.IssueStatusAssigned:
			return model.IssueStatusResolved, nil
		case model.IssueStatusPending:
			return "", &apperrors.TransitionError{Reason: "issue has not been assigned to a lecturer"}
		case model.IssueStatusResolved:
			return "", &apperrors.TransitionError{Reason: "issue is already resolved"}
		}
	default:
		return "", fmt.Errorf("unknown %s", op)
	}
	return "", &apperrors.TransitionError{Reason: fmt.Sprintf("unknown issue status %q", from)}
}

// CheckResolver ensures the lecturer resolving an issue is the one it was
// assigned to.
func CheckResolver(actor Actor, issue *model.Issue) error {
	if issue.AssignedLecturerID == nil || *issue.AssignedLecturerID != actor.ID {
		return apperrors.Forbidden("issue is assigned to another lecturer")
	}
	return nil
}
