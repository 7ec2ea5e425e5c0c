package crm

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dealercrm/backend/internal/domain/crm"
	"github.com/dealercrm/backend/internal/infrastructure/sms"
)

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

// failingSender always reports a gateway failure
type failingSender struct{}

func (failingSender) Send(_ context.Context, _, _, _ string) (sms.SendResult, error) {
	return sms.SendResult{Accepted: false, Detail: "number unreachable"}, nil
}

func newMessageService(repo *MockMessageRepository, leadRepo *MockLeadRepository, eventLog *MockEventLogRepository, sender sms.Sender) *MessageService {
	return NewMessageService(repo, leadRepo, eventLog, sender, zap.NewNop())
}

func TestMessageService_SendSMS_Success(t *testing.T) {
	msgRepo := new(MockMessageRepository)
	leadRepo := new(MockLeadRepository)
	eventLog := new(MockEventLogRepository)
	sender := sms.NewLogSender()
	svc := newMessageService(msgRepo, leadRepo, eventLog, sender)

	dealershipID := uuid.New()
	lead := mustNewLead(t, dealershipID)

	leadRepo.On("FindByID", mock.Anything, dealershipID, lead.ID).Return(lead, nil)
	leadRepo.On("Update", mock.Anything, lead).Return(nil)
	msgRepo.On("Create", mock.Anything, mock.AnythingOfType("*crm.Message")).Return(nil)
	msgRepo.On("Update", mock.Anything, mock.AnythingOfType("*crm.Message")).Return(nil)
	eventLog.On("Append", mock.Anything, mock.AnythingOfType("[]*audit.EventLogEntry")).Return(nil)

	msg, err := svc.SendMessage(context.Background(), SendMessageInput{
		DealershipID: dealershipID,
		LeadID:       lead.ID,
		Channel:      crm.MessageChannelSMS,
		Body:         "Hi Dana, your CR-V is ready for a test drive",
		From:         "+15125550100",
	})

	require.NoError(t, err)
	assert.Equal(t, crm.MessageStatusSent, msg.Status)
	assert.NotEmpty(t, msg.ExternalID)

	// First outreach advances the lead out of NEW
	assert.Equal(t, crm.LeadStatusContacted, lead.Status)

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, lead.Phone, sent[0].To)
}

func TestMessageService_SendSMS_GatewayFailure(t *testing.T) {
	msgRepo := new(MockMessageRepository)
	leadRepo := new(MockLeadRepository)
	eventLog := new(MockEventLogRepository)
	svc := newMessageService(msgRepo, leadRepo, eventLog, failingSender{})

	dealershipID := uuid.New()
	lead := mustNewLead(t, dealershipID)

	leadRepo.On("FindByID", mock.Anything, dealershipID, lead.ID).Return(lead, nil)
	leadRepo.On("Update", mock.Anything, lead).Return(nil)
	msgRepo.On("Create", mock.Anything, mock.AnythingOfType("*crm.Message")).Return(nil)
	msgRepo.On("Update", mock.Anything, mock.AnythingOfType("*crm.Message")).Return(nil)
	eventLog.On("Append", mock.Anything, mock.AnythingOfType("[]*audit.EventLogEntry")).Return(nil)

	msg, err := svc.SendMessage(context.Background(), SendMessageInput{
		DealershipID: dealershipID,
		LeadID:       lead.ID,
		Channel:      crm.MessageChannelSMS,
		Body:         "Hi Dana",
	})

	// A gateway failure is not an operation failure
	require.NoError(t, err)
	assert.Equal(t, crm.MessageStatusFailed, msg.Status)
	assert.Equal(t, "number unreachable", msg.FailReason)
}

func TestMessageService_SendSMS_NoPhone(t *testing.T) {
	msgRepo := new(MockMessageRepository)
	leadRepo := new(MockLeadRepository)
	svc := newMessageService(msgRepo, leadRepo, new(MockEventLogRepository), sms.NewLogSender())

	dealershipID := uuid.New()
	lead, err := crm.NewLead(dealershipID, "Dana", "Whitfield", "dana@example.com", "", crm.LeadSourceWeb)
	require.NoError(t, err)
	lead.ClearDomainEvents()

	leadRepo.On("FindByID", mock.Anything, dealershipID, lead.ID).Return(lead, nil)

	_, err = svc.SendMessage(context.Background(), SendMessageInput{
		DealershipID: dealershipID,
		LeadID:       lead.ID,
		Channel:      crm.MessageChannelSMS,
		Body:         "Hi",
	})

	require.Error(t, err)
	msgRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMessageService_RecordInboundMessage(t *testing.T) {
	msgRepo := new(MockMessageRepository)
	leadRepo := new(MockLeadRepository)
	eventLog := new(MockEventLogRepository)
	svc := newMessageService(msgRepo, leadRepo, eventLog, sms.NewLogSender())

	dealershipID := uuid.New()
	lead := mustNewLead(t, dealershipID)

	leadRepo.On("FindByID", mock.Anything, dealershipID, lead.ID).Return(lead, nil)
	leadRepo.On("Update", mock.Anything, lead).Return(nil)
	msgRepo.On("Create", mock.Anything, mock.AnythingOfType("*crm.Message")).Return(nil)
	eventLog.On("Append", mock.Anything, mock.AnythingOfType("[]*audit.EventLogEntry")).Return(nil)

	msg, err := svc.RecordInboundMessage(context.Background(), RecordInboundMessageInput{
		DealershipID: dealershipID,
		LeadID:       lead.ID,
		Channel:      crm.MessageChannelSMS,
		Body:         "Yes, Saturday works",
		ExternalID:   "SM-9912",
	})

	require.NoError(t, err)
	assert.Equal(t, crm.MessageDirectionInbound, msg.Direction)
	assert.Equal(t, crm.MessageStatusReceived, msg.Status)
	assert.Equal(t, "SM-9912", msg.ExternalID)
	assert.NotNil(t, lead.LastActivityAt)
}
