package services

import (
	"context"
	"errors"
	"sync"

	"piercing-studio-site/models"
)

var errUnreachable = errors.New("dial tcp: connection refused")

type fakeAPI struct {
	mu sync.Mutex

	info       *models.BusinessInfo
	infoErr    error
	pricing    *models.PricingInfo
	pricingErr error
	result     *models.SubmitResult
	submitErr  error
	healthErr  error

	// release, when set, blocks the reads until closed. started receives
	// one value per read that reached the block.
	release chan struct{}
	started chan struct{}

	submissions []models.Submission
	reads       int
}

func (f *fakeAPI) wait(ctx context.Context) error {
	if f.release == nil {
		return nil
	}
	if f.started != nil {
		f.started <- struct{}{}
	}
	select {
	case <-f.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeAPI) BusinessInfo(ctx context.Context) (*models.BusinessInfo, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.info, f.infoErr
}

func (f *fakeAPI) Pricing(ctx context.Context) (*models.PricingInfo, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.pricing, f.pricingErr
}

func (f *fakeAPI) SubmitReleaseForm(_ context.Context, sub models.Submission) (*models.SubmitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, sub)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.result, nil
}

func (f *fakeAPI) Health(context.Context) error {
	return f.healthErr
}

func (f *fakeAPI) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submissions)
}

type notification struct {
	form   models.ReleaseForm
	result models.SubmitResult
}

type fakeNotifier struct {
	ch chan notification
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{ch: make(chan notification, 4)}
}

func (n *fakeNotifier) ReleaseFormAccepted(_ context.Context, form models.ReleaseForm, result models.SubmitResult) {
	n.ch <- notification{form: form, result: result}
}

func price(v float64) *float64 { return &v }

func sampleBusinessInfo() *models.BusinessInfo {
	return &models.BusinessInfo{
		Name:    "Multnomah Body Piercing & Tattoo",
		Address: "1861 NE DIVISION ST GRESHAM OR. 97030",
		Phone:   "(503) 669-4191",
		Email:   "Multnomahtattoo@gmail.com",
		Hours: map[string]string{
			"tuesday": "11:00 AM – 6:00 PM",
			"sunday":  "CLOSED",
		},
	}
}

func samplePricing() *models.PricingInfo {
	return &models.PricingInfo{
		SinglePiercings: models.PriceList{
			{Key: "set_of_earlobes", PriceItem: models.PriceItem{Name: "Set of Earlobes", Price: 80}},
			{Key: "industrial", PriceItem: models.PriceItem{Name: "Industrial", Price: 100}},
		},
		StandardPiercings: models.StandardPiercings{
			Single: models.StandardSingle{Price: 90, Types: []string{"Nostril", "Helix"}},
			Pair:   models.StandardPair{Price: 130, Additional: price(20)},
		},
		Services: models.PriceList{
			{Key: "jewelry_change", PriceItem: models.PriceItem{Name: "Jewelry Change", Price: 5}},
		},
		Guarantee: "All piercings include a three month guarantee",
	}
}

func fillValidForm(vc *ViewController) {
	for field, value := range map[string]string{
		models.FieldFirstName:    "Jane",
		models.FieldLastName:     "Doe",
		models.FieldEmail:        "jane@example.com",
		models.FieldPhone:        "503-555-0100",
		models.FieldDateOfBirth:  "1999-04-12",
		models.FieldPiercingType: "Helix",
		models.FieldAgreedTerms:  "true",
	} {
		if err := vc.UpdateField(field, value); err != nil {
			panic(err)
		}
	}
}
