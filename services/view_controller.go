package services

import (
	"context"
	"sync"
	"time"

	"piercing-studio-site/models"
	"piercing-studio-site/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	SubmitSuccessMessage = "✅ Form submitted successfully!"
	SubmitFailureMessage = "❌ Error submitting form. Please try again."
)

// SuccessMessage is the status line shown after the API accepts a form.
func SuccessMessage(pricing *float64) string {
	if pricing == nil {
		return SubmitSuccessMessage
	}
	return SubmitSuccessMessage + " Your piercing price: $" + models.FormatPrice(*pricing)
}

// Notifier is told about every release form the API accepts.
type Notifier interface {
	ReleaseFormAccepted(ctx context.Context, form models.ReleaseForm, result models.SubmitResult)
}

// ViewController owns one visitor's page state. Each operation mutates the
// state and callers re-derive the page with View.
type ViewController struct {
	mu       sync.Mutex
	state    *models.ViewState
	api      StudioAPI
	notifier Notifier
	logger   *zap.Logger
}

// NewViewController wraps state, starting from defaults when state is nil.
// notifier may be nil.
func NewViewController(state *models.ViewState, api StudioAPI, notifier Notifier, logger *zap.Logger) *ViewController {
	if state == nil {
		state = models.NewViewState()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewController{
		state:    state,
		api:      api,
		notifier: notifier,
		logger:   logger,
	}
}

// Mount issues the two startup reads concurrently. They are independent:
// either may finish first and a failure in one does not affect the other.
func (v *ViewController) Mount(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		v.LoadBusinessInfo(ctx)
		return nil
	})
	g.Go(func() error {
		v.LoadPricing(ctx)
		return nil
	})
	g.Wait()
}

func (v *ViewController) LoadBusinessInfo(ctx context.Context) {
	info, err := v.api.BusinessInfo(ctx)
	if err == nil && !info.Complete() {
		err = ErrEmptyResponse
	}
	if err != nil {
		v.logger.Warn("error fetching business info", zap.Error(err))
		return
	}
	if ctx.Err() != nil {
		return
	}
	v.mu.Lock()
	v.state.BusinessInfo = info
	v.mu.Unlock()
}

func (v *ViewController) LoadPricing(ctx context.Context) {
	pricing, err := v.api.Pricing(ctx)
	if err == nil && !pricing.Complete() {
		err = ErrEmptyResponse
	}
	if err != nil {
		v.logger.Warn("error fetching pricing", zap.Error(err))
		return
	}
	if ctx.Err() != nil {
		return
	}
	v.mu.Lock()
	v.state.PricingInfo = pricing
	v.mu.Unlock()
}

func (v *ViewController) SelectTab(tab models.Tab) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.ActiveTab = tab
	v.state.Validation = nil
}

// UpdateField merges one form field. Nothing beyond type checking happens
// here; required-field checks run at submit time.
func (v *ViewController) UpdateField(field, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Form.Set(field, value)
}

// Validate checks the form as the browser would before sending it and
// records the problems for the next render.
func (v *ViewController) Validate() []models.FieldError {
	v.mu.Lock()
	defer v.mu.Unlock()
	problems := utils.ValidateReleaseForm(v.state.Form)
	v.state.Validation = problems
	return problems
}

// RejectInput records field errors for posted values that could not be
// applied to the form.
func (v *ViewController) RejectInput(problems []models.FieldError) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Validation = problems
}

// Submit sends the form to the API unless required inputs are missing, in
// which case the problems are returned and nothing is sent. The status
// message is set from the outcome; the form itself is kept as entered.
func (v *ViewController) Submit(ctx context.Context) []models.FieldError {
	if problems := v.Validate(); len(problems) > 0 {
		return problems
	}

	v.mu.Lock()
	form := v.state.Form
	mountedAt := v.state.MountedAt
	v.mu.Unlock()

	message := SubmitFailureMessage
	result, err := v.api.SubmitReleaseForm(ctx, models.NewSubmission(form))
	switch {
	case err != nil:
		v.logger.Error("error submitting release form", zap.Error(err))
	case !result.Success:
		v.logger.Warn("release form rejected", zap.String("detail", result.Message))
	default:
		message = SuccessMessage(result.Pricing)
		v.logger.Info("release form submitted",
			zap.String("client_id", result.ClientID),
			zap.String("piercing_type", form.PiercingType),
			zap.Duration("session_age", time.Since(mountedAt).Round(time.Second)))
		if v.notifier != nil {
			go v.notifier.ReleaseFormAccepted(context.WithoutCancel(ctx), form, *result)
		}
	}

	v.mu.Lock()
	v.state.Message = message
	v.mu.Unlock()
	return nil
}

// State returns the underlying state for persistence.
func (v *ViewController) State() *models.ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *ViewController) View() models.View {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Render(v.state)
}
