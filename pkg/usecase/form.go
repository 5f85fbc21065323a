package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
)

// Form holds the draft of a page form. A successful submit clears the draft and closes
// the form; a failed one keeps both so the user can retry.
type Form[T any] struct {
	mu         sync.Mutex
	open       bool
	draft      T
	submitting bool
}

// Open shows the form
func (f *Form[T]) Open() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = true
}

// Close hides the form. The draft is kept.
func (f *Form[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
}

// Edit replaces the draft
func (f *Form[T]) Edit(draft T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = draft
}

// FormState is what a page shows of its form. The trigger is disabled while Submitting.
type FormState[T any] struct {
	Open       bool `json:"open"`
	Submitting bool `json:"submitting"`
	Draft      T    `json:"draft"`
}

// State returns the form as currently shown
func (f *Form[T]) State() FormState[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormState[T]{Open: f.open, Submitting: f.submitting, Draft: f.draft}
}

// Submit sends the draft through submit
func (f *Form[T]) Submit(ctx context.Context, submit func(ctx context.Context, draft T) error) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return goerr.Wrap(ErrBusy, "form is being submitted")
	}
	return f.send(ctx, f.draft, submit)
}

// Post fills the form with draft and submits it in one step. While a submit is in
// flight the draft is left untouched and ErrBusy is returned.
func (f *Form[T]) Post(ctx context.Context, draft T, submit func(ctx context.Context, draft T) error) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return goerr.Wrap(ErrBusy, "form is being submitted")
	}
	f.draft = draft
	f.open = true
	return f.send(ctx, draft, submit)
}

// send runs submit with f.mu held on entry
func (f *Form[T]) send(ctx context.Context, draft T, submit func(ctx context.Context, draft T) error) error {
	f.submitting = true
	f.mu.Unlock()

	err := submit(ctx, draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		return err
	}

	var zero T
	f.draft = zero
	f.open = false
	return nil
}
