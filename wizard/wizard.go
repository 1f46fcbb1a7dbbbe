package wizard

import (
	"context"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"
	"golang.org/x/sync/semaphore"

	"github.com/crosti/buyerform/model"
)

// Step is a wizard position: 1..9, or one of the terminal pseudo-steps.
type Step int

const (
	StepWelcome Step = iota + 1
	StepAboutYou
	StepBusinessType
	StepLocation
	StepBudget
	StepExperience
	StepFinances
	StepFit
	StepConnect

	// StepDone follows a successful submission.
	StepDone Step = -1
	// StepDetails is reached from StepDone only.
	StepDetails Step = -2
)

const (
	FirstStep = StepWelcome
	LastStep  = StepConnect
)

// Numbered reports whether s is one of the nine linear steps.
func (s Step) Numbered() bool {
	return s >= FirstStep && s <= LastStep
}

func (s Step) String() string {
	switch s {
	case StepDone:
		return "done"
	case StepDetails:
		return "details"
	default:
		return strconv.Itoa(int(s))
	}
}

// Title is the heading shown for a step.
func (s Step) Title() string {
	return stepTitles[s]
}

// Submitter delivers a completed profile.
type Submitter interface {
	Submit(ctx context.Context, p *model.BuyerProfile) error
}

// Wizard is the state of one buyer filling in the form. It is safe for
// concurrent use; at most one submission runs at a time.
type Wizard struct {
	mu        sync.Mutex
	step      Step
	profile   model.BuyerProfile
	errors    map[string]bool
	message   string
	submitter Submitter
	inflight  *semaphore.Weighted
	busy      atomic.Bool
}

// New starts a wizard at step 1 with an empty profile.
func New(submitter Submitter) *Wizard {
	return &Wizard{
		step:      FirstStep,
		errors:    map[string]bool{},
		submitter: submitter,
		inflight:  semaphore.NewWeighted(1),
	}
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Profile returns a copy of the answers so far.
func (w *Wizard) Profile() model.BuyerProfile {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.profile
}

// Value returns the current answer for field.
func (w *Wizard) Value(field string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	v, _ := w.profile.Get(field)
	return v
}

// Errors returns the fields that failed the last validation and have not
// been edited since.
func (w *Wizard) Errors() map[string]bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return maps.Clone(w.errors)
}

func (w *Wizard) HasError(field string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errors[field]
}

// Message is the user-facing status line, empty when there is nothing to say.
func (w *Wizard) Message() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.message
}

// Submitting reports whether a submission is in flight.
func (w *Wizard) Submitting() bool {
	return w.busy.Load()
}

// Progress is the completed fraction, (step-1)/8 on numbered steps.
func (w *Wizard) Progress() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.step.Numbered() {
		return 1
	}
	return float64(w.step-FirstStep) / float64(LastStep-FirstStep)
}

// SetField stores value and clears any error marked on field. Answers are
// frozen while a submit is running.
func (w *Wizard) SetField(field, value string) error {
	if limit := maxChars(field); limit > 0 {
		value = truncateRunes(value, limit)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy.Load() {
		return ErrSubmitInFlight
	}
	if err := w.profile.Set(field, value); err != nil {
		return err
	}
	delete(w.errors, field)
	return nil
}

// ToggleOption selects option on a multi-select field, or deselects it when
// already chosen. Selections keep the order they were made in.
func (w *Wizard) ToggleOption(field, option string) error {
	if !IsMultiSelect(field) {
		return fmt.Errorf("%w: %s", ErrNotMultiSelect, field)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy.Load() {
		return ErrSubmitInFlight
	}

	current, _ := w.profile.Get(field)
	selected := splitSelections(current)
	if lo.Contains(selected, option) {
		selected = lo.Without(selected, option)
	} else {
		selected = append(selected, option)
	}

	if err := w.profile.Set(field, strings.Join(lo.Uniq(selected), ",")); err != nil {
		return err
	}
	delete(w.errors, field)
	return nil
}

// Selected reports whether option is chosen on field.
func (w *Wizard) Selected(field, option string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	v, _ := w.profile.Get(field)
	if IsMultiSelect(field) {
		return lo.Contains(splitSelections(v), option)
	}
	return v == option
}

// ShowOverflow reports whether the free-text field paired with selector
// should be offered: the selector equals "Other", or for multi-selects
// "Other" is among the selections.
func (w *Wizard) ShowOverflow(selector string) bool {
	if _, ok := model.OverflowFields[selector]; !ok {
		return false
	}
	return w.Selected(selector, model.OtherOption)
}

// OverWordLimit reports whether an overflow answer exceeds the advisory word
// limit. It never blocks progress.
func (w *Wizard) OverWordLimit(field string) bool {
	return len(strings.Fields(w.Value(field))) > OverflowWordLimit
}

// Validate recomputes the error set for the current step and reports whether
// it is complete.
func (w *Wizard) Validate() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.validateLocked()
}

func (w *Wizard) validateLocked() bool {
	w.errors = map[string]bool{}
	if !w.step.Numbered() {
		return true
	}
	for _, f := range model.MissingFields(&w.profile, model.StepRequirements[int(w.step)]) {
		w.errors[f] = true
	}
	return len(w.errors) == 0
}

// Advance validates the current step and moves forward. On the last step it
// submits instead.
func (w *Wizard) Advance(ctx context.Context) error {
	w.mu.Lock()
	if !w.step.Numbered() {
		w.mu.Unlock()
		return fmt.Errorf("%w: advance from %s", ErrInvalidTransition, w.step)
	}
	if w.step == LastStep {
		w.mu.Unlock()
		return w.Submit(ctx)
	}
	defer w.mu.Unlock()

	if !w.validateLocked() {
		w.message = MessageIncomplete
		return ErrIncomplete
	}
	w.message = ""
	w.step++
	return nil
}

// Retreat moves back one step without validating. It is refused while a
// submit is running.
func (w *Wizard) Retreat() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy.Load() {
		return ErrSubmitInFlight
	}
	if !w.step.Numbered() || w.step == FirstStep {
		return fmt.Errorf("%w: retreat from %s", ErrInvalidTransition, w.step)
	}
	w.step--
	w.message = ""
	return nil
}

// Submit sends the profile from the last step. A second call while one is
// running fails with ErrSubmitInFlight. On failure the wizard stays on the
// last step with a retry message.
func (w *Wizard) Submit(ctx context.Context) error {
	if !w.inflight.TryAcquire(1) {
		return ErrSubmitInFlight
	}
	defer w.inflight.Release(1)
	w.busy.Store(true)
	defer w.busy.Store(false)

	w.mu.Lock()
	if w.step != LastStep {
		w.mu.Unlock()
		return fmt.Errorf("%w: submit from %s", ErrInvalidTransition, w.step)
	}
	if !w.validateLocked() {
		w.message = MessageIncomplete
		w.mu.Unlock()
		return ErrIncomplete
	}
	w.message = ""
	snapshot := w.profile
	w.mu.Unlock()

	err := w.submitter.Submit(ctx, &snapshot)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.message = MessageSubmitFailed
		return err
	}
	w.step = StepDone
	w.profile = model.BuyerProfile{}
	w.errors = map[string]bool{}
	return nil
}

// DeferToDetails leaves the done screen for the contact details screen.
func (w *Wizard) DeferToDetails() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepDone {
		return fmt.Errorf("%w: details from %s", ErrInvalidTransition, w.step)
	}
	w.step = StepDetails
	return nil
}

func splitSelections(v string) []string {
	if v == "" {
		return nil
	}
	return lo.Filter(strings.Split(v, ","), func(s string, _ int) bool { return s != "" })
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
