package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/assocosmetologie/backend/internal/models"
	"github.com/hibiken/asynq"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// UserRepository is the interface that wraps the user lookup needed by the welcome e-mail
type UserRepository interface {
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, models.ErrUserNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// RegistrationRepository is the interface that wraps the registration lookup needed by the confirmation e-mail
type RegistrationRepository interface {
	// Method GetDetails retrieves a registration joined with its event.
	//
	// If registration with such ID does not exist, models.ErrRegistrationNotFound will be returned together with "nil" value.
	GetDetails(ctx context.Context, id int64) (*models.RegistrationDetails, error)
}

// EventCloser closes events that have already ended
type EventCloser interface {
	// Method MarkPastEvents moves ended upcoming events to the past status and returns how many changed.
	MarkPastEvents(ctx context.Context) (int64, error)
}

// Sender delivers e-mails
type Sender interface {
	Send(msg *Message) error
}

// Processor handles the tasks pulled by the worker
type Processor struct {
	users         UserRepository
	registrations RegistrationRepository
	events        EventCloser
	sender        Sender
	publicURL     string
	logger        *zap.Logger
}

// NewProcessor creates a new task processor
func NewProcessor(
	users UserRepository,
	registrations RegistrationRepository,
	events EventCloser,
	sender Sender,
	publicURL string,
	logger *zap.Logger,
) *Processor {
	return &Processor{
		users:         users,
		registrations: registrations,
		events:        events,
		sender:        sender,
		publicURL:     strings.TrimRight(publicURL, "/"),
		logger:        logger,
	}
}

// Register adds the processor handlers to the mux
func (p *Processor) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeWelcomeEmail, p.HandleWelcome)
	mux.HandleFunc(TypeRegistrationEmail, p.HandleRegistration)
	mux.HandleFunc(TypeMarkPastEvents, p.HandleMarkPast)
}

// HandleWelcome sends the welcome e-mail of a new member
func (p *Processor) HandleWelcome(ctx context.Context, t *asynq.Task) error {
	var payload WelcomePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to parse welcome payload: %v: %w", err, asynq.SkipRetry)
	}

	user, err := p.users.GetByID(ctx, payload.UserID)
	if err != nil {
		// Account removed before processing, nothing to send
		if errors.Is(err, models.ErrNotFound) {
			p.logger.Info("welcome e-mail skipped, user not found", zap.Int64("user_id", payload.UserID))
			return nil
		}
		return err
	}

	body, err := render(welcomeTemplate, map[string]any{
		"FirstName": user.FirstName,
		"Plan":      user.MembershipPlan,
		"URL":       p.publicURL + "/profil",
	})
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if err := p.sender.Send(&Message{To: user.Email, Subject: "Bienvenue à l'association", HTMLBody: body}); err != nil {
		return err
	}

	p.logger.Info("welcome e-mail sent", zap.Int64("user_id", user.ID))
	return nil
}

// HandleRegistration sends the registration confirmation with its QR code ticket
func (p *Processor) HandleRegistration(ctx context.Context, t *asynq.Task) error {
	var payload RegistrationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to parse registration payload: %v: %w", err, asynq.SkipRetry)
	}

	details, err := p.registrations.GetDetails(ctx, payload.RegistrationID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			p.logger.Info("confirmation skipped, registration not found", zap.Int64("registration_id", payload.RegistrationID))
			return nil
		}
		return err
	}

	ticket, err := qrcode.Encode(details.ConfirmationCode, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to encode ticket: %v: %w", err, asynq.SkipRetry)
	}

	body, err := render(registrationTemplate, map[string]any{
		"Name":     details.Name,
		"Event":    details.EventTitle,
		"Start":    details.EventStart.Format("02/01/2006 15:04"),
		"Location": details.EventLocation,
		"Price":    fmt.Sprintf("%.2f €", details.Price),
		"Member":   details.MemberPricing,
		"Code":     details.ConfirmationCode,
		"URL":      fmt.Sprintf("%s/evenements/%d", p.publicURL, details.EventID),
	})
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	msg := &Message{
		To:          details.Email,
		Subject:     "Confirmation d'inscription : " + details.EventTitle,
		HTMLBody:    body,
		Attachments: []Attachment{{Name: "billet-" + details.ConfirmationCode + ".png", Data: ticket}},
	}
	if err := p.sender.Send(msg); err != nil {
		return err
	}

	p.logger.Info("registration confirmation sent",
		zap.Int64("registration_id", details.ID),
		zap.Int64("event_id", details.EventID),
	)
	return nil
}

// HandleMarkPast closes every upcoming event that has already ended
func (p *Processor) HandleMarkPast(ctx context.Context, _ *asynq.Task) error {
	closed, err := p.events.MarkPastEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark past events: %w", err)
	}
	if closed > 0 {
		p.logger.Info("events closed", zap.Int64("count", closed))
	}
	return nil
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<p>Bonjour {{.FirstName}},</p>
<p>Merci pour votre adhésion ({{.Plan}}). Votre demande est en cours de validation par notre équipe.</p>
<p>Vous pouvez compléter votre profil à tout moment : <a href="{{.URL}}">{{.URL}}</a></p>`))

var registrationTemplate = template.Must(template.New("registration").Parse(`<p>Bonjour {{.Name}},</p>
<p>Votre inscription à <strong>{{.Event}}</strong> est confirmée.</p>
<ul>
<li>Date : {{.Start}}</li>
<li>Lieu : {{.Location}}</li>
<li>Tarif : {{.Price}}{{if .Member}} (tarif adhérent){{end}}</li>
<li>Code de confirmation : {{.Code}}</li>
</ul>
<p>Présentez le QR code joint à l'accueil. Détails : <a href="{{.URL}}">{{.URL}}</a></p>`))

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s e-mail: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
