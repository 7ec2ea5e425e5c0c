package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dealercrm/backend/internal/domain/crm"
	"github.com/dealercrm/backend/internal/domain/scoring"
	"github.com/dealercrm/backend/internal/domain/shared"
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

func newService(leadRepo *MockLeadRepository, msgRepo *MockMessageRepository, apptRepo *MockAppointmentRepository) *ScoreService {
	return NewScoreService(leadRepo, msgRepo, apptRepo, zap.NewNop())
}

func mustNewLead(t *testing.T, dealershipID uuid.UUID) *crm.Lead {
	t.Helper()
	lead, err := crm.NewLead(dealershipID, "Dana", "Whitfield", "dana@example.com", "+15125550147", crm.LeadSourceWeb)
	require.NoError(t, err)
	lead.ClearDomainEvents()
	return lead
}

func TestScoreService_Recompute_StoresScore(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	msgRepo := new(MockMessageRepository)
	apptRepo := new(MockAppointmentRepository)
	svc := newService(leadRepo, msgRepo, apptRepo)

	dealershipID := uuid.New()
	lead := mustNewLead(t, dealershipID)

	leadRepo.On("FindByID", mock.Anything, dealershipID, lead.ID).Return(lead, nil)
	leadRepo.On("Update", mock.Anything, lead).Return(nil)
	msgRepo.On("FindByLead", mock.Anything, dealershipID, lead.ID).Return([]*crm.Message{}, nil)
	apptRepo.On("FindByLead", mock.Anything, dealershipID, lead.ID).Return([]*crm.Appointment{}, nil)

	breakdown, err := svc.Recompute(context.Background(), dealershipID, lead.ID)

	require.NoError(t, err)
	assert.Equal(t, breakdown.Total, lead.Score)
	assert.GreaterOrEqual(t, breakdown.Total, scoring.MinScore)
	assert.LessOrEqual(t, breakdown.Total, scoring.MaxScore)
	leadRepo.AssertExpectations(t)
}

func TestScoreService_Recompute_SoldSkipsRelations(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	msgRepo := new(MockMessageRepository)
	apptRepo := new(MockAppointmentRepository)
	svc := newService(leadRepo, msgRepo, apptRepo)

	dealershipID := uuid.New()
	lead := mustNewLead(t, dealershipID)
	require.NoError(t, lead.TransitionTo(crm.LeadStatusContacted))
	require.NoError(t, lead.TransitionTo(crm.LeadStatusQualified))
	require.NoError(t, lead.TransitionTo(crm.LeadStatusNegotiating))
	require.NoError(t, lead.TransitionTo(crm.LeadStatusSold))
	lead.ClearDomainEvents()

	leadRepo.On("FindByID", mock.Anything, dealershipID, lead.ID).Return(lead, nil)
	leadRepo.On("Update", mock.Anything, lead).Return(nil)

	breakdown, err := svc.Recompute(context.Background(), dealershipID, lead.ID)

	require.NoError(t, err)
	assert.Equal(t, scoring.MaxScore, breakdown.Total)
	assert.Equal(t, scoring.MaxScore, lead.Score)
	msgRepo.AssertNotCalled(t, "FindByLead", mock.Anything, mock.Anything, mock.Anything)
	apptRepo.AssertNotCalled(t, "FindByLead", mock.Anything, mock.Anything, mock.Anything)
}

func TestScoreService_Recompute_OverrideWins(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	msgRepo := new(MockMessageRepository)
	apptRepo := new(MockAppointmentRepository)
	svc := newService(leadRepo, msgRepo, apptRepo)

	dealershipID := uuid.New()
	lead := mustNewLead(t, dealershipID)
	require.NoError(t, lead.OverrideScore(77))
	lead.ClearDomainEvents()

	leadRepo.On("FindByID", mock.Anything, dealershipID, lead.ID).Return(lead, nil)
	msgRepo.On("FindByLead", mock.Anything, dealershipID, lead.ID).Return([]*crm.Message{}, nil)
	apptRepo.On("FindByLead", mock.Anything, dealershipID, lead.ID).Return([]*crm.Appointment{}, nil)

	breakdown, err := svc.Recompute(context.Background(), dealershipID, lead.ID)

	require.NoError(t, err)
	assert.NotEqual(t, 77, breakdown.Total, "computed value is independent of the override")
	assert.Equal(t, 77, lead.Score, "stored score keeps the override")
	leadRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestScoreService_Recompute_CountsRelations(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	msgRepo := new(MockMessageRepository)
	apptRepo := new(MockAppointmentRepository)
	svc := newService(leadRepo, msgRepo, apptRepo)

	dealershipID := uuid.New()
	lead := mustNewLead(t, dealershipID)

	outbound, err := crm.NewOutboundMessage(dealershipID, lead.ID, crm.MessageChannelSMS, "hi", nil)
	require.NoError(t, err)
	inbound, err := crm.NewInboundMessage(dealershipID, lead.ID, crm.MessageChannelSMS, "hello", "SM-1")
	require.NoError(t, err)
	showed, err := crm.NewAppointment(dealershipID, lead.ID, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, showed.Confirm())
	require.NoError(t, showed.MarkShowed())

	leadRepo.On("FindByID", mock.Anything, dealershipID, lead.ID).Return(lead, nil)
	leadRepo.On("Update", mock.Anything, lead).Return(nil)
	msgRepo.On("FindByLead", mock.Anything, dealershipID, lead.ID).Return([]*crm.Message{outbound, inbound}, nil)
	apptRepo.On("FindByLead", mock.Anything, dealershipID, lead.ID).Return([]*crm.Appointment{showed}, nil)

	engaged, err := svc.Recompute(context.Background(), dealershipID, lead.ID)
	require.NoError(t, err)

	assert.Positive(t, engaged.Engagement)
	assert.Positive(t, engaged.Appointment)
}

func TestScoreService_Recompute_StoresUnchangedScore(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	msgRepo := new(MockMessageRepository)
	apptRepo := new(MockAppointmentRepository)
	svc := newService(leadRepo, msgRepo, apptRepo)

	dealershipID := uuid.New()
	lead := mustNewLead(t, dealershipID)

	leadRepo.On("FindByID", mock.Anything, dealershipID, lead.ID).Return(lead, nil)
	leadRepo.On("Update", mock.Anything, lead).Return(nil)
	msgRepo.On("FindByLead", mock.Anything, dealershipID, lead.ID).Return([]*crm.Message{}, nil)
	apptRepo.On("FindByLead", mock.Anything, dealershipID, lead.ID).Return([]*crm.Appointment{}, nil)

	_, err := svc.Recompute(context.Background(), dealershipID, lead.ID)
	require.NoError(t, err)
	require.NotNil(t, lead.ScoreUpdatedAt)
	first := *lead.ScoreUpdatedAt

	// A second recompute with identical facts still persists so the
	// timestamp reflects the latest run.
	_, err = svc.Recompute(context.Background(), dealershipID, lead.ID)
	require.NoError(t, err)

	leadRepo.AssertNumberOfCalls(t, "Update", 2)
	assert.False(t, lead.ScoreUpdatedAt.Before(first))
}

func TestScoreService_Explain_DoesNotStore(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	msgRepo := new(MockMessageRepository)
	apptRepo := new(MockAppointmentRepository)
	svc := newService(leadRepo, msgRepo, apptRepo)

	dealershipID := uuid.New()
	lead := mustNewLead(t, dealershipID)

	leadRepo.On("FindByID", mock.Anything, dealershipID, lead.ID).Return(lead, nil)
	msgRepo.On("FindByLead", mock.Anything, dealershipID, lead.ID).Return([]*crm.Message{}, nil)
	apptRepo.On("FindByLead", mock.Anything, dealershipID, lead.ID).Return([]*crm.Appointment{}, nil)

	breakdown, err := svc.Explain(context.Background(), dealershipID, lead.ID)

	require.NoError(t, err)
	assert.NotEmpty(t, breakdown.Reasons)
	assert.Zero(t, lead.Score, "explain never writes")
	leadRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestScoreService_Recompute_NotFound(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	svc := newService(leadRepo, new(MockMessageRepository), new(MockAppointmentRepository))

	dealershipID := uuid.New()
	leadID := uuid.New()
	leadRepo.On("FindByID", mock.Anything, dealershipID, leadID).Return(nil, shared.ErrNotFound)

	_, err := svc.Recompute(context.Background(), dealershipID, leadID)
	require.Error(t, err)
	assert.Equal(t, "LEAD_NOT_FOUND", err.(*shared.DomainError).Code)
}
