package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
)

type IssueUseCase struct {
	page
	Form Form[model.IssueDraft]
}

// IssueCard is one issue on the board with the single action it offers
type IssueCard struct {
	model.Issue
	ControlName     string            `json:"control_name"`
	NextAction      string            `json:"next_action,omitempty"`
	NextStatus      types.IssueStatus `json:"next_status,omitempty"`
	CanAddException bool              `json:"can_add_exception"`
	Busy            bool              `json:"busy"`
}

// IssueBoard is the issues page
type IssueBoard struct {
	Total         int                               `json:"total"`
	WithException int                               `json:"with_exception"`
	Counts        map[types.IssueStatus]int         `json:"counts"`
	Columns       map[types.IssueStatus][]IssueCard `json:"columns"`
	Order         []types.IssueStatus               `json:"order"`
}

// CreateIssue opens a new issue. New issues start Open without exception.
func (uc *IssueUseCase) CreateIssue(ctx context.Context, draft model.IssueDraft) error {
	return uc.create(ctx, "create:issue", draft.Validate,
		func(ctx context.Context) error { return uc.gateway.CreateIssue(ctx, draft) },
		MsgIssueCreated, MsgIssueCreateFailed)
}

// SubmitForm sends the issue form draft
func (uc *IssueUseCase) SubmitForm(ctx context.Context) error {
	return uc.Form.Submit(ctx, uc.CreateIssue)
}

func issueKey(id string) string { return "issue:" + id }

// Transition moves an issue to target. Only the single next status of the lifecycle
// Open, In Progress, Resolved, Closed is accepted; Closed is terminal. The rule is
// enforced here because the backend does not validate transitions. The current status
// is read while the issue is held so concurrent callers never act on a stale status.
func (uc *IssueUseCase) Transition(ctx context.Context, id string, target types.IssueStatus) error {
	return uc.guard.do(issueKey(id), func() error {
		issue, ok := uc.app.Snapshot().IssueByID(id)
		if !ok {
			return goerr.Wrap(ErrIssueNotFound, "no such issue", goerr.V(IssueIDKey, id))
		}
		if !issue.Status.CanTransitionTo(target) {
			return goerr.Wrap(ErrInvalidTransition, "issue cannot move to status",
				goerr.V(IssueIDKey, id),
				goerr.V("from", issue.Status),
				goerr.V("to", target))
		}

		if err := uc.gateway.UpdateIssueStatus(ctx, id, target); err != nil {
			uc.app.fail(ctx, err, MsgIssueUpdateFailed)
			return goerr.Wrap(err, "failed to update issue status", goerr.V(IssueIDKey, id), goerr.V(StatusKey, target))
		}

		uc.app.Mutators().PatchIssue(id, func(i *model.Issue) {
			i.Status = target
		})
		uc.app.notify(ctx, model.Success(msgIssueStatus(target)))
		return nil
	})
}

// Advance performs the one transition the issue currently offers
func (uc *IssueUseCase) Advance(ctx context.Context, id string) error {
	issue, ok := uc.app.Snapshot().IssueByID(id)
	if !ok {
		return goerr.Wrap(ErrIssueNotFound, "no such issue", goerr.V(IssueIDKey, id))
	}
	next, ok := issue.Status.Next()
	if !ok {
		return goerr.Wrap(ErrInvalidTransition, "issue has no next status",
			goerr.V(IssueIDKey, id), goerr.V(StatusKey, issue.Status))
	}
	return uc.Transition(ctx, id, next)
}

// GrantException attaches an exception to an issue that is not closed and has none yet.
// There is no way to revoke it.
func (uc *IssueUseCase) GrantException(ctx context.Context, id string, details model.ExceptionDetails) error {
	if err := details.Validate(); err != nil {
		uc.app.notify(ctx, model.Failure(MsgRequiredFields))
		return goerr.Wrap(err, "invalid exception details")
	}

	return uc.guard.do(issueKey(id), func() error {
		issue, ok := uc.app.Snapshot().IssueByID(id)
		if !ok {
			return goerr.Wrap(ErrIssueNotFound, "no such issue", goerr.V(IssueIDKey, id))
		}
		if issue.HasException || !issue.Status.AllowsException() {
			return goerr.Wrap(ErrExceptionNotAllowed, "exception cannot be granted",
				goerr.V(IssueIDKey, id),
				goerr.V(StatusKey, issue.Status),
				goerr.V("has_exception", issue.HasException))
		}

		if err := uc.gateway.GrantException(ctx, id, details); err != nil {
			uc.app.fail(ctx, err, MsgExceptionAddFailed)
			return goerr.Wrap(err, "failed to grant exception", goerr.V(IssueIDKey, id))
		}

		uc.app.Mutators().PatchIssue(id, func(i *model.Issue) {
			i.HasException = true
			i.ExceptionDetails = &details
		})
		uc.app.notify(ctx, model.Success(MsgExceptionAdded))

		_ = uc.app.RefreshAll(ctx)
		return nil
	})
}

func (uc *IssueUseCase) Board() *IssueBoard {
	snap := uc.app.Snapshot()

	board := &IssueBoard{
		Total:   len(snap.Issues),
		Counts:  make(map[types.IssueStatus]int),
		Columns: make(map[types.IssueStatus][]IssueCard),
		Order:   types.AllIssueStatuses(),
	}

	for _, issue := range snap.Issues {
		card := IssueCard{
			Issue:           issue,
			ControlName:     controlName(snap, issue.UnifiedControlID),
			NextAction:      issue.Status.ActionLabel(),
			CanAddException: !issue.HasException && issue.Status.AllowsException(),
			Busy:            uc.busy(issueKey(issue.ID)),
		}
		if next, ok := issue.Status.Next(); ok {
			card.NextStatus = next
		}
		if issue.HasException {
			board.WithException++
		}
		board.Counts[issue.Status]++
		board.Columns[issue.Status] = append(board.Columns[issue.Status], card)
	}

	return board
}
