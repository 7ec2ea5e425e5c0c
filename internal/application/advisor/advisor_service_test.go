package advisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dealercrm/backend/internal/domain/crm"
	"github.com/dealercrm/backend/internal/domain/shared"
	"github.com/dealercrm/backend/internal/infrastructure/queue"
	"github.com/dealercrm/backend/internal/infrastructure/redact"
)

// MockLeadRepository is a mock implementation of crm.LeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *crm.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) Update(ctx context.Context, lead *crm.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, dealershipID, id uuid.UUID) (*crm.Lead, error) {
	args := m.Called(ctx, dealershipID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindAll(ctx context.Context, dealershipID uuid.UUID, filter crm.LeadFilter) ([]*crm.Lead, int64, error) {
	args := m.Called(ctx, dealershipID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*crm.Lead), args.Get(1).(int64), args.Error(2)
}

func (m *MockLeadRepository) FindByEmail(ctx context.Context, dealershipID uuid.UUID, email string) ([]*crm.Lead, error) {
	args := m.Called(ctx, dealershipID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*crm.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByPhone(ctx context.Context, dealershipID uuid.UUID, phone string) ([]*crm.Lead, error) {
	args := m.Called(ctx, dealershipID, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*crm.Lead), args.Error(1)
}

func (m *MockLeadRepository) Count(ctx context.Context, dealershipID uuid.UUID) (int64, error) {
	args := m.Called(ctx, dealershipID)
	return args.Get(0).(int64), args.Error(1)
}

// MockAppointmentRepository is a mock implementation of crm.AppointmentRepository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, appt *crm.Appointment) error {
	args := m.Called(ctx, appt)
	return args.Error(0)
}

func (m *MockAppointmentRepository) Update(ctx context.Context, appt *crm.Appointment) error {
	args := m.Called(ctx, appt)
	return args.Error(0)
}

func (m *MockAppointmentRepository) FindByID(ctx context.Context, dealershipID, id uuid.UUID) (*crm.Appointment, error) {
	args := m.Called(ctx, dealershipID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindByLead(ctx context.Context, dealershipID, leadID uuid.UUID) ([]*crm.Appointment, error) {
	args := m.Called(ctx, dealershipID, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*crm.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindUpcoming(ctx context.Context, dealershipID uuid.UUID, from, to time.Time) ([]*crm.Appointment, error) {
	args := m.Called(ctx, dealershipID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*crm.Appointment), args.Error(1)
}

// MockMessageRepository is a mock implementation of crm.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *crm.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) Update(ctx context.Context, msg *crm.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) FindByID(ctx context.Context, dealershipID, id uuid.UUID) (*crm.Message, error) {
	args := m.Called(ctx, dealershipID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Message), args.Error(1)
}

func (m *MockMessageRepository) FindByLead(ctx context.Context, dealershipID, leadID uuid.UUID) ([]*crm.Message, error) {
	args := m.Called(ctx, dealershipID, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*crm.Message), args.Error(1)
}

func (m *MockMessageRepository) CountByLead(ctx context.Context, dealershipID, leadID uuid.UUID) (int64, int64, error) {
	args := m.Called(ctx, dealershipID, leadID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// failingEnqueuer always reports a broker failure
type failingEnqueuer struct{}

func (failingEnqueuer) Enqueue(_ context.Context, _ queue.Job) error {
	return errors.New("broker unavailable")
}

func mustNewLead(t *testing.T, dealershipID uuid.UUID) *crm.Lead {
	t.Helper()
	lead, err := crm.NewLead(dealershipID, "Dana", "Whitfield", "dana@example.com", "+15125550147", crm.LeadSourceWeb)
	require.NoError(t, err)
	lead.ClearDomainEvents()
	return lead
}

func suggestionCodes(suggestions []Suggestion) []string {
	codes := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		codes = append(codes, s.Code)
	}
	return codes
}

func TestSuggest_FreshUnassignedLead(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	apptRepo := new(MockAppointmentRepository)
	msgRepo := new(MockMessageRepository)
	enqueuer := queue.NewMemoryEnqueuer()
	svc := NewAdvisorService(leadRepo, apptRepo, msgRepo, enqueuer, zap.NewNop())

	dealershipID := uuid.New()
	lead := mustNewLead(t, dealershipID)

	leadRepo.On("FindByID", mock.Anything, dealershipID, lead.ID).Return(lead, nil)
	msgRepo.On("CountByLead", mock.Anything, dealershipID, lead.ID).Return(int64(0), int64(0), nil)
	apptRepo.On("FindUpcoming", mock.Anything, dealershipID, mock.Anything, mock.Anything).Return([]*crm.Appointment{}, nil)

	suggestions, err := svc.Suggest(context.Background(), dealershipID, lead.ID)

	require.NoError(t, err)
	codes := suggestionCodes(suggestions)
	assert.Contains(t, codes, "ASSIGN")
	assert.Contains(t, codes, "FIRST_TOUCH")
}

func TestSuggest_RespondingShopperGetsAppointmentAdvice(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	apptRepo := new(MockAppointmentRepository)
	msgRepo := new(MockMessageRepository)
	svc := NewAdvisorService(leadRepo, apptRepo, msgRepo, queue.NewMemoryEnqueuer(), zap.NewNop())

	dealershipID := uuid.New()
	lead := mustNewLead(t, dealershipID)
	require.NoError(t, lead.AssignTo(uuid.New()))
	require.NoError(t, lead.TransitionTo(crm.LeadStatusContacted))
	lead.ClearDomainEvents()

	leadRepo.On("FindByID", mock.Anything, dealershipID, lead.ID).Return(lead, nil)
	msgRepo.On("CountByLead", mock.Anything, dealershipID, lead.ID).Return(int64(2), int64(1), nil)
	apptRepo.On("FindUpcoming", mock.Anything, dealershipID, mock.Anything, mock.Anything).Return([]*crm.Appointment{}, nil)

	suggestions, err := svc.Suggest(context.Background(), dealershipID, lead.ID)

	require.NoError(t, err)
	assert.Contains(t, suggestionCodes(suggestions), "BOOK_APPOINTMENT")
}

func TestSuggest_ClosedLead(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	apptRepo := new(MockAppointmentRepository)
	msgRepo := new(MockMessageRepository)
	svc := NewAdvisorService(leadRepo, apptRepo, msgRepo, queue.NewMemoryEnqueuer(), zap.NewNop())

	dealershipID := uuid.New()
	lead := mustNewLead(t, dealershipID)
	require.NoError(t, lead.MarkLost("no budget"))
	lead.ClearDomainEvents()

	leadRepo.On("FindByID", mock.Anything, dealershipID, lead.ID).Return(lead, nil)
	msgRepo.On("CountByLead", mock.Anything, dealershipID, lead.ID).Return(int64(1), int64(0), nil)
	apptRepo.On("FindUpcoming", mock.Anything, dealershipID, mock.Anything, mock.Anything).Return([]*crm.Appointment{}, nil)

	suggestions, err := svc.Suggest(context.Background(), dealershipID, lead.ID)

	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "CLOSED", suggestions[0].Code)
}

func TestSuggest_EnqueuesRedactedJob(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	apptRepo := new(MockAppointmentRepository)
	msgRepo := new(MockMessageRepository)
	enqueuer := queue.NewMemoryEnqueuer()
	svc := NewAdvisorService(leadRepo, apptRepo, msgRepo, enqueuer, zap.NewNop())

	dealershipID := uuid.New()
	lead := mustNewLead(t, dealershipID)
	lead.Notes = "call Dana at dana@example.com"
	lead.VehicleInterest = "2024 CX-5 for Dana Whitfield"

	leadRepo.On("FindByID", mock.Anything, dealershipID, lead.ID).Return(lead, nil)
	msgRepo.On("CountByLead", mock.Anything, dealershipID, lead.ID).Return(int64(0), int64(0), nil)
	apptRepo.On("FindUpcoming", mock.Anything, dealershipID, mock.Anything, mock.Anything).Return([]*crm.Appointment{}, nil)

	_, err := svc.Suggest(context.Background(), dealershipID, lead.ID)
	require.NoError(t, err)

	jobs := enqueuer.Jobs()
	require.Len(t, jobs, 1)
	job := jobs[0]
	assert.Equal(t, JobTypeLeadAdvice, job.Type)

	// Identity fields never reach the queue raw; prose fields are dropped
	// wholesale
	assert.Equal(t, redact.ValueMarker, job.Payload["email"])
	assert.Equal(t, redact.ValueMarker, job.Payload["phone"])
	assert.Equal(t, redact.TextMarker, job.Payload["notes"])
	assert.Equal(t, redact.TextMarker, job.Payload["vehicle_interest"])
	assert.Equal(t, "D. W.", job.Payload["initials"])
	assert.Equal(t, lead.ID.String(), job.Payload["lead_id"])
	assert.Equal(t, string(crm.LeadStatusNew), job.Payload["status"])
}

func TestSuggest_EnqueueFailureDoesNotFail(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	apptRepo := new(MockAppointmentRepository)
	msgRepo := new(MockMessageRepository)
	svc := NewAdvisorService(leadRepo, apptRepo, msgRepo, failingEnqueuer{}, zap.NewNop())

	dealershipID := uuid.New()
	lead := mustNewLead(t, dealershipID)

	leadRepo.On("FindByID", mock.Anything, dealershipID, lead.ID).Return(lead, nil)
	msgRepo.On("CountByLead", mock.Anything, dealershipID, lead.ID).Return(int64(0), int64(0), nil)
	apptRepo.On("FindUpcoming", mock.Anything, dealershipID, mock.Anything, mock.Anything).Return([]*crm.Appointment{}, nil)

	suggestions, err := svc.Suggest(context.Background(), dealershipID, lead.ID)

	require.NoError(t, err, "enqueue is fire-and-forget")
	assert.NotEmpty(t, suggestions)
}

func TestSuggest_LeadNotFound(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	svc := NewAdvisorService(leadRepo, new(MockAppointmentRepository), new(MockMessageRepository), queue.NewMemoryEnqueuer(), zap.NewNop())

	dealershipID := uuid.New()
	leadID := uuid.New()
	leadRepo.On("FindByID", mock.Anything, dealershipID, leadID).Return(nil, shared.ErrNotFound)

	_, err := svc.Suggest(context.Background(), dealershipID, leadID)
	require.Error(t, err)
	assert.Equal(t, "LEAD_NOT_FOUND", err.(*shared.DomainError).Code)
}
