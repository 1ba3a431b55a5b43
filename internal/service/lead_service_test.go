//go:build unit

package service

import (
	"context"
	"errors"
	"marketing-site/internal/data"
	"marketing-site/internal/logger"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLeadRepository struct {
	created []*data.Lead
	err     error
}

var _ LeadRepository = (*mockLeadRepository)(nil)

func (m *mockLeadRepository) CreateLead(ctx context.Context, lead *data.Lead) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, lead)
	return nil
}

func (m *mockLeadRepository) ListLeads(ctx context.Context, limit int) ([]*data.Lead, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.created, nil
}

func (m *mockLeadRepository) CountLeads(ctx context.Context) (int, error) {
	return len(m.created), m.err
}

func validForm() LeadForm {
	return LeadForm{
		Name:    "  Mei Chan ",
		Email:   "mei@noodlebar.hk",
		Company: "Noodle Bar & Co",
		Outlets: 3,
		Message: "Looking for <b>table ordering</b>",
	}
}

func TestLeadService_Submit(t *testing.T) {
	repo := &mockLeadRepository{}
	svc := NewLeadService(repo, logger.Nop())
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	attr := data.Attribution{UTMSource: "google", UTMCampaign: "spring", LandingPath: "/hk/pricing"}
	lead, err := svc.Submit(context.Background(), validForm(), "hk", attr)
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Same(t, lead, repo.created[0])
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, fixed, lead.CreatedAt)
	assert.Equal(t, "Mei Chan", lead.Name)
	assert.Equal(t, "Noodle Bar & Co", lead.Company)
	assert.Equal(t, "Looking for table ordering", lead.Message)
	assert.Equal(t, "hk", lead.Locale)
	assert.Equal(t, "google", lead.UTMSource)
	assert.Equal(t, "spring", lead.UTMCampaign)
	assert.Equal(t, "/hk/pricing", lead.LandingPath)
}

func TestLeadService_Submit_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(f *LeadForm)
		field  string
	}{
		{"missing name", func(f *LeadForm) { f.Name = "   " }, "name"},
		{"markup only name", func(f *LeadForm) { f.Name = "<script>x</script>" }, "name"},
		{"missing company", func(f *LeadForm) { f.Company = "" }, "company"},
		{"missing email", func(f *LeadForm) { f.Email = "" }, "email"},
		{"bad email", func(f *LeadForm) { f.Email = "not-an-email" }, "email"},
		{"display name email", func(f *LeadForm) { f.Email = "Mei <mei@noodlebar.hk>" }, "email"},
		{"negative outlets", func(f *LeadForm) { f.Outlets = -1 }, "outlets"},
		{"long message", func(f *LeadForm) { f.Message = strings.Repeat("a", maxMessageLength+1) }, "message"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockLeadRepository{}
			svc := NewLeadService(repo, logger.Nop())
			form := validForm()
			tc.mutate(&form)

			_, err := svc.Submit(context.Background(), form, "en", data.Attribution{})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidLead)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tc.field)
			assert.Empty(t, repo.created)
		})
	}
}

func TestLeadService_Submit_RepositoryError(t *testing.T) {
	repo := &mockLeadRepository{err: errors.New("disk full")}
	svc := NewLeadService(repo, logger.Nop())

	_, err := svc.Submit(context.Background(), validForm(), "en", data.Attribution{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidLead))
}

func TestLeadService_Recent(t *testing.T) {
	repo := &mockLeadRepository{}
	svc := NewLeadService(repo, logger.Nop())
	_, err := svc.Submit(context.Background(), validForm(), "en", data.Attribution{})
	require.NoError(t, err)

	leads, total, err := svc.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, leads, 1)
	assert.Equal(t, 1, total)
}
