package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"marketing-site/internal/data"
	"marketing-site/internal/logger"
	"net/mail"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// ErrInvalidLead is matched by every lead validation error.
var ErrInvalidLead = errors.New("invalid lead")

const (
	maxFieldLength   = 200
	maxMessageLength = 4000
	maxOutlets       = 10000
)

// LeadRepository defines the storage operations for leads.
type LeadRepository interface {
	CreateLead(ctx context.Context, lead *data.Lead) error
	ListLeads(ctx context.Context, limit int) ([]*data.Lead, error)
	CountLeads(ctx context.Context) (int, error)
}

// LeadForm is a demo request as submitted by a visitor.
type LeadForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Outlets int    `json:"outlets"`
	Message string `json:"message"`
}

// ValidationError lists the rejected fields with a reason for each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid lead: %s", strings.Join(names, ", "))
}

// Is makes errors.Is(err, ErrInvalidLead) true for validation errors.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidLead
}

// LeadService validates and stores demo requests.
type LeadService struct {
	repo      LeadRepository
	sanitizer *bluemonday.Policy
	log       logger.Logger
	now       func() time.Time
}

// NewLeadService creates a new LeadService.
func NewLeadService(repo LeadRepository, log logger.Logger) *LeadService {
	return &LeadService{
		repo: repo,
		// Leads are shown back to staff, so no markup survives.
		sanitizer: bluemonday.StrictPolicy(),
		log:       log,
		now:       time.Now,
	}
}

// Submit validates form and stores it as a lead for locale with the visitor's attribution.
func (s *LeadService) Submit(ctx context.Context, form LeadForm, locale string, attr data.Attribution) (*data.Lead, error) {
	lead := &data.Lead{
		Name:        s.clean(form.Name),
		Email:       strings.TrimSpace(form.Email),
		Company:     s.clean(form.Company),
		Phone:       s.clean(form.Phone),
		Outlets:     form.Outlets,
		Message:     s.clean(form.Message),
		Locale:      locale,
		UTMSource:   s.clean(attr.UTMSource),
		UTMMedium:   s.clean(attr.UTMMedium),
		UTMCampaign: s.clean(attr.UTMCampaign),
		Referrer:    strings.TrimSpace(attr.Referrer),
		LandingPath: strings.TrimSpace(attr.LandingPath),
	}

	if err := validate(lead); err != nil {
		return nil, err
	}

	lead.ID = uuid.NewString()
	lead.CreatedAt = s.now().UTC()
	if err := s.repo.CreateLead(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to store lead: %w", err)
	}

	s.log.With(map[string]interface{}{"lead_id": lead.ID, "locale": locale, "utm_source": lead.UTMSource}).
		Info("Demo request received")
	return lead, nil
}

// Recent returns the latest leads, newest first, and the total count.
func (s *LeadService) Recent(ctx context.Context, limit int) ([]*data.Lead, int, error) {
	leads, err := s.repo.ListLeads(ctx, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountLeads(ctx)
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// clean strips markup. The sanitizer escapes what it keeps; templates escape again on
// output, so the stored value is unescaped plain text.
func (s *LeadService) clean(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(strings.TrimSpace(v))))
}

func validate(l *data.Lead) error {
	fields := map[string]string{}
	required := map[string]string{"name": l.Name, "company": l.Company}
	for name, v := range required {
		if v == "" {
			fields[name] = "required"
		}
	}

	if l.Email == "" {
		fields["email"] = "required"
	} else if addr, err := mail.ParseAddress(l.Email); err != nil || addr.Address != l.Email {
		fields["email"] = "not a valid address"
	}

	for name, v := range map[string]string{"name": l.Name, "company": l.Company, "phone": l.Phone, "email": l.Email} {
		if utf8.RuneCountInString(v) > maxFieldLength {
			fields[name] = "too long"
		}
	}
	if utf8.RuneCountInString(l.Message) > maxMessageLength {
		fields["message"] = "too long"
	}
	if l.Outlets < 0 || l.Outlets > maxOutlets {
		fields["outlets"] = "out of range"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
