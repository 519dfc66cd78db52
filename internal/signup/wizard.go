// Package signup implements the three-step membership application:
// identity and credentials, then address, plan and consent, then payment and submission.
package signup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/assocosmetologie/backend/internal/client"
	"github.com/assocosmetologie/backend/internal/models"
)

// Step is a wizard page, numbered from 1
type Step int

// Wizard steps
const (
	StepIdentity Step = 1
	StepAddress  Step = 2
	StepPayment  Step = 3
)

var (
	// ErrLastStep is returned by Next on the payment step
	ErrLastStep = errors.New("already on the last step")
	// ErrNotOnPaymentStep is returned by Submit before step 3
	ErrNotOnPaymentStep = errors.New("submission is only possible on the payment step")
	// ErrAlreadySubmitted is returned by Submit once the application is confirmed
	ErrAlreadySubmitted = errors.New("application already submitted")
	// ErrUnknownPlan is returned by SelectPlan for an id outside Plans
	ErrUnknownPlan = errors.New("unknown membership plan")
)

// Form holds everything typed by the applicant
type Form struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Company         string
	Profession      string
	Password        string
	ConfirmPassword string
	Address         string
	PostalCode      string
	City            string
	Country         string
	Plan            models.MembershipPlan
	AcceptTerms     bool
}

// Registrar creates the member account
type Registrar interface {
	// Method Register sends the application and returns the issued token and user
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
}

// PaymentCapturer charges the membership fee
type PaymentCapturer interface {
	// Method Capture charges plan's annual fee to the applicant
	Capture(ctx context.Context, plan Plan, email string) error
}

// SimulatedPayment accepts every payment. No gateway is integrated.
type SimulatedPayment struct{}

// Capture always succeeds unless ctx is done
func (SimulatedPayment) Capture(ctx context.Context, _ Plan, _ string) error {
	return ctx.Err()
}

// SubmitError is a failed submission. Its message is shown to the applicant as is.
type SubmitError struct {
	Message string
	Fields  map[string]string
	Err     error
}

func (e *SubmitError) Error() string {
	return e.Message
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Wizard drives one membership application
type Wizard struct {
	registrar Registrar
	payment   PaymentCapturer
	session   *client.Session

	mu        sync.Mutex
	form      Form
	step      Step
	confirmed bool
	user      *models.User
}

// Option configures a Wizard
type Option func(*Wizard)

// WithPayment replaces the simulated payment
func WithPayment(p PaymentCapturer) Option {
	return func(w *Wizard) {
		w.payment = p
	}
}

// NewWizard starts an application on step 1 with the default plan selected
func NewWizard(registrar Registrar, session *client.Session, opts ...Option) *Wizard {
	w := &Wizard{
		registrar: registrar,
		payment:   SimulatedPayment{},
		session:   session,
		form:      Form{Plan: DefaultPlan},
		step:      StepIdentity,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Update edits the form in place
func (w *Wizard) Update(edit func(f *Form)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	edit(&w.form)
}

// Form returns a copy of the form
func (w *Wizard) Form() Form {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// Step returns the current step
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Confirmed reports whether the application was accepted
func (w *Wizard) Confirmed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.confirmed
}

// User returns the created member, nil until confirmed
func (w *Wizard) User() *models.User {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.user
}

// SelectPlan picks the membership offer
func (w *Wizard) SelectPlan(plan models.MembershipPlan) error {
	if _, ok := FindPlan(plan); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPlan, plan)
	}
	w.Update(func(f *Form) { f.Plan = plan })
	return nil
}

// Next validates the current step and advances. On failure the step is unchanged
// and a *models.ValidationError lists every failing field.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	switch w.step {
	case StepIdentity:
		err = ValidateStep1(&w.form)
	case StepAddress:
		err = ValidateStep2(&w.form)
	default:
		return ErrLastStep
	}
	if err != nil {
		return err
	}
	w.step++
	return nil
}

// Prev goes back one step, never below step 1
func (w *Wizard) Prev() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > StepIdentity && !w.confirmed {
		w.step--
	}
}

// Submit captures the payment and sends the application. On success the session
// is signed in and the wizard is confirmed. Nothing is retried.
func (w *Wizard) Submit(ctx context.Context) (*models.User, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.confirmed {
		return nil, ErrAlreadySubmitted
	}
	if w.step != StepPayment {
		return nil, ErrNotOnPaymentStep
	}
	// The form may have been edited since Next ran
	if err := ValidateStep1(&w.form); err != nil {
		return nil, err
	}
	if err := ValidateStep2(&w.form); err != nil {
		return nil, err
	}

	plan, ok := FindPlan(w.form.Plan)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, w.form.Plan)
	}
	if err := w.payment.Capture(ctx, plan, w.form.Email); err != nil {
		return nil, &SubmitError{Message: "payment failed", Err: err}
	}

	resp, err := w.registrar.Register(ctx, w.request())
	if err != nil {
		return nil, submitError(err)
	}
	if resp == nil || resp.Token == "" || resp.User == nil {
		return nil, &SubmitError{Message: "unexpected response from the server"}
	}

	w.session.Set(resp.Token, resp.User)
	w.user = resp.User
	w.confirmed = true
	return resp.User, nil
}

// request maps the form onto the registration payload
func (w *Wizard) request() *models.RegisterRequest {
	f := &w.form
	return &models.RegisterRequest{
		Email:              strings.TrimSpace(f.Email),
		Password:           f.Password,
		FirstName:          strings.TrimSpace(f.FirstName),
		LastName:           strings.TrimSpace(f.LastName),
		Phone:              strings.TrimSpace(f.Phone),
		Company:            strings.TrimSpace(f.Company),
		Profession:         strings.TrimSpace(f.Profession),
		ProfessionalStatus: models.ProfessionalStatusProfessional,
		DomainsOfInterest:  append([]string(nil), models.DefaultDomainsOfInterest...),
		Address:            strings.TrimSpace(f.Address),
		PostalCode:         strings.TrimSpace(f.PostalCode),
		City:               strings.TrimSpace(f.City),
		Country:            strings.TrimSpace(f.Country),
		MembershipPlan:     f.Plan,
	}
}

func submitError(err error) error {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return &SubmitError{Message: apiErr.Message, Fields: apiErr.Fields, Err: err}
	case errors.Is(err, client.ErrUnreachable):
		return &SubmitError{Message: client.ErrUnreachable.Error(), Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return &SubmitError{Message: err.Error(), Err: err}
	}
}

// ValidateStep1 checks identity and credentials
func ValidateStep1(f *Form) error {
	verr := models.NewValidationError()
	if strings.TrimSpace(f.FirstName) == "" {
		verr.Add("firstName", "first name is required")
	}
	if strings.TrimSpace(f.LastName) == "" {
		verr.Add("lastName", "last name is required")
	}
	switch {
	case strings.TrimSpace(f.Email) == "":
		verr.Add("email", "email is required")
	case !client.IsValidEmail(f.Email):
		verr.Add("email", "email is not valid")
	}
	switch {
	case f.Password == "":
		verr.Add("password", "password is required")
	case utf8.RuneCountInString(f.Password) < client.MinPasswordLength:
		verr.Add("password", "password must be at least 6 characters")
	case len(f.Password) > client.MaxPasswordBytes:
		verr.Add("password", "password must be at most 72 bytes")
	}
	switch {
	case f.ConfirmPassword == "":
		verr.Add("confirmPassword", "please confirm your password")
	case f.ConfirmPassword != f.Password:
		verr.Add("confirmPassword", "passwords do not match")
	}
	if strings.TrimSpace(f.Profession) == "" {
		verr.Add("profession", "profession is required")
	}
	return verr.OrNil()
}

// ValidateStep2 checks the postal address and consent
func ValidateStep2(f *Form) error {
	verr := models.NewValidationError()
	if strings.TrimSpace(f.Address) == "" {
		verr.Add("address", "address is required")
	}
	if strings.TrimSpace(f.PostalCode) == "" {
		verr.Add("postalCode", "postal code is required")
	}
	if strings.TrimSpace(f.City) == "" {
		verr.Add("city", "city is required")
	}
	if !f.AcceptTerms {
		verr.Add("acceptTerms", "you must accept the terms and conditions")
	}
	return verr.OrNil()
}
