package usecase

import (
	"cmp"
	"context"
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
)

type TestingUseCase struct {
	page
	Form Form[model.ControlTestDraft]
}

// TestingStats is the header of the control testing page
type TestingStats struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	Evidence int `json:"evidence"`
}

// ControlTesting is one unified control with its tests, newest first
type ControlTesting struct {
	Control  model.UnifiedControl `json:"control"`
	Tests    []model.ControlTest  `json:"tests"`
	Evidence int                  `json:"evidence"`
}

// TestingView is the control testing page
type TestingView struct {
	Stats    TestingStats     `json:"stats"`
	Controls []ControlTesting `json:"controls"`
}

func testKey(controlID string) string { return "control_test:" + controlID }

// SubmitTest records a control test. A failing result makes the backend open an issue
// on its own; the client only announces it and picks it up on the next refresh.
func (uc *TestingUseCase) SubmitTest(ctx context.Context, draft model.ControlTestDraft) error {
	if err := draft.Validate(); err != nil {
		uc.app.notify(ctx, model.Failure(MsgRequiredFields))
		return goerr.Wrap(err, "invalid control test")
	}

	return uc.guard.do(testKey(draft.UnifiedControlID), func() error {
		if err := uc.gateway.CreateControlTest(ctx, draft); err != nil {
			uc.app.fail(ctx, err, MsgTestSubmitFailed)
			return goerr.Wrap(err, "failed to submit control test", goerr.V(ControlIDKey, draft.UnifiedControlID))
		}

		if draft.Result == types.TestResultFail {
			uc.app.notify(ctx, model.Success(MsgTestFailed))
			uc.app.notify(ctx, model.Info(MsgIssueAutoCreated))
		} else {
			uc.app.notify(ctx, model.Success(MsgTestPassed))
		}

		_ = uc.app.RefreshAll(ctx)
		return nil
	})
}

// SubmitForm sends the control test form draft
func (uc *TestingUseCase) SubmitForm(ctx context.Context) error {
	return uc.Form.Submit(ctx, uc.SubmitTest)
}

// TestsFor returns the tests of one control, newest first
func (uc *TestingUseCase) TestsFor(controlID string) []model.ControlTest {
	return newestFirst(uc.app.Snapshot().TestsFor(controlID))
}

// newestFirst orders tests by test date, latest first. Test dates are ISO 8601 strings.
func newestFirst(tests []model.ControlTest) []model.ControlTest {
	out := slices.Clone(tests)
	slices.SortStableFunc(out, func(a, b model.ControlTest) int {
		return cmp.Compare(b.TestDate, a.TestDate)
	})
	return out
}

func (uc *TestingUseCase) Stats() TestingStats {
	return testingStats(uc.app.Snapshot())
}

func testingStats(snap *model.Snapshot) TestingStats {
	stats := TestingStats{Total: len(snap.ControlTests), Evidence: len(snap.Evidence)}
	for _, t := range snap.ControlTests {
		switch t.Result {
		case types.TestResultPass:
			stats.Passed++
		case types.TestResultFail:
			stats.Failed++
		}
	}
	return stats
}

func (uc *TestingUseCase) View() *TestingView {
	snap := uc.app.Snapshot()
	view := &TestingView{
		Stats:    testingStats(snap),
		Controls: make([]ControlTesting, 0, len(snap.UnifiedControls)),
	}
	for _, c := range snap.UnifiedControls {
		view.Controls = append(view.Controls, ControlTesting{
			Control:  c,
			Tests:    newestFirst(snap.TestsFor(c.ID)),
			Evidence: len(snap.EvidenceFor(c.ID)),
		})
	}
	return view
}
