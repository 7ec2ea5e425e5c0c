package ingestion

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dealercrm/backend/internal/domain/audit"
	"github.com/dealercrm/backend/internal/domain/crm"
	"github.com/dealercrm/backend/internal/domain/shared"
)

// MockLeadRepository is a mock implementation of crm.LeadRepository
type MockLeadRepository struct {
	mock.Mock
	created []*crm.Lead
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *crm.Lead) error {
	args := m.Called(ctx, lead)
	if args.Error(0) == nil {
		m.created = append(m.created, lead)
	}
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

// MockIntegrationEventRepository is a mock implementation of audit.IntegrationEventRepository
type MockIntegrationEventRepository struct {
	mock.Mock
	events []*audit.IntegrationEvent
}

func (m *MockIntegrationEventRepository) Create(ctx context.Context, event *audit.IntegrationEvent) error {
	args := m.Called(ctx, event)
	if args.Error(0) == nil {
		m.events = append(m.events, event)
	}
	return args.Error(0)
}

func (m *MockIntegrationEventRepository) FindByDealership(ctx context.Context, dealershipID uuid.UUID, from, to time.Time) ([]*audit.IntegrationEvent, error) {
	args := m.Called(ctx, dealershipID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.IntegrationEvent), args.Error(1)
}

func (m *MockIntegrationEventRepository) CountBySource(ctx context.Context, dealershipID uuid.UUID, from, to time.Time) (map[string]audit.SourceCounts, error) {
	args := m.Called(ctx, dealershipID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]audit.SourceCounts), args.Error(1)
}

// MockEventLogRepository is a mock implementation of audit.EventLogRepository
type MockEventLogRepository struct {
	mock.Mock
}

func (m *MockEventLogRepository) Append(ctx context.Context, entries ...*audit.EventLogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockEventLogRepository) FindByDealership(ctx context.Context, dealershipID uuid.UUID, from, to time.Time) ([]*audit.EventLogEntry, error) {
	args := m.Called(ctx, dealershipID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.EventLogEntry), args.Error(1)
}

func (m *MockEventLogRepository) FindByAggregate(ctx context.Context, dealershipID, aggregateID uuid.UUID) ([]*audit.EventLogEntry, error) {
	args := m.Called(ctx, dealershipID, aggregateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.EventLogEntry), args.Error(1)
}

func newImportService(t *testing.T) (*ImportService, *MockLeadRepository, *MockIntegrationEventRepository) {
	t.Helper()
	leadRepo := new(MockLeadRepository)
	eventRepo := new(MockIntegrationEventRepository)
	eventLog := new(MockEventLogRepository)

	leadRepo.On("Create", mock.Anything, mock.AnythingOfType("*crm.Lead")).Return(nil)
	eventRepo.On("Create", mock.Anything, mock.AnythingOfType("*audit.IntegrationEvent")).Return(nil)
	eventLog.On("Append", mock.Anything, mock.AnythingOfType("[]*audit.EventLogEntry")).Return(nil)

	return NewImportService(leadRepo, eventRepo, eventLog, zap.NewNop()), leadRepo, eventRepo
}

func TestImportCSV_MixedRows(t *testing.T) {
	svc, leadRepo, eventRepo := newImportService(t)
	dealershipID := uuid.New()

	// BOM, aliased headers, an embedded comma, and a contact-less row
	csv := "\uFEFFFirst Name,Last Name,Email Address,Phone Number,Vehicle of Interest\r\n" +
		"Dana,Whitfield,dana@example.com,(512) 555-0147,\"2023 Honda CR-V, EX-L trim\"\r\n" +
		"Marcus,Reed,,,\r\n" +
		"Priya,Nair,PRIYA@EXAMPLE.COM,,2022 Civic\r\n"

	summary, err := svc.ImportCSV(context.Background(), ImportCSVInput{
		DealershipID: dealershipID,
		Data:         []byte(csv),
	})

	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalRows)
	assert.Equal(t, 2, summary.SuccessCount)
	assert.Equal(t, 1, summary.FailureCount)

	require.Len(t, leadRepo.created, 2)
	dana := leadRepo.created[0]
	assert.Equal(t, "dana@example.com", dana.Email)
	assert.Equal(t, "5125550147", dana.Phone)
	assert.Equal(t, "2023 Honda CR-V, EX-L trim", dana.VehicleInterest)
	assert.Equal(t, crm.LeadSourceCSVImport, dana.Source)
	assert.Equal(t, dealershipID, dana.DealershipID)

	priya := leadRepo.created[1]
	assert.Equal(t, "priya@example.com", priya.Email)

	// One receipt per data row
	require.Len(t, eventRepo.events, 3)
	var accepted, rejected int
	for _, ev := range eventRepo.events {
		switch ev.Status {
		case audit.IntegrationEventAccepted:
			accepted++
			assert.NotNil(t, ev.LeadID)
		case audit.IntegrationEventRejected:
			rejected++
			assert.Nil(t, ev.LeadID)
			assert.Equal(t, 3, ev.RowNumber)
		}
		assert.Equal(t, CSVSource, ev.Source)
	}
	assert.Equal(t, 2, accepted)
	assert.Equal(t, 1, rejected)
}

func TestImportCSV_MalformedQuoting(t *testing.T) {
	svc, leadRepo, eventRepo := newImportService(t)
	dealershipID := uuid.New()

	csv := "first_name,email\n" +
		"Dana,dana@example.com\n" +
		"\"Broken,broken@example.com\n"

	summary, err := svc.ImportCSV(context.Background(), ImportCSVInput{
		DealershipID: dealershipID,
		Data:         []byte(csv),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, summary.SuccessCount)
	assert.Equal(t, 1, summary.FailureCount)
	assert.Len(t, leadRepo.created, 1)
	assert.Len(t, eventRepo.events, 2)
}

func TestImportCSV_NoContactColumn(t *testing.T) {
	svc, leadRepo, eventRepo := newImportService(t)

	csv := "first_name,last_name\nDana,Whitfield\n"

	_, err := svc.ImportCSV(context.Background(), ImportCSVInput{
		DealershipID: uuid.New(),
		Data:         []byte(csv),
	})

	require.Error(t, err)
	assert.Equal(t, "IMPORT_MISSING_CONTACT_COLUMN", err.(*shared.DomainError).Code)
	assert.Empty(t, leadRepo.created, "header rejection happens before any row")
	assert.Empty(t, eventRepo.events)
}

func TestImportCSV_EmptyFile(t *testing.T) {
	svc, _, _ := newImportService(t)

	_, err := svc.ImportCSV(context.Background(), ImportCSVInput{
		DealershipID: uuid.New(),
		Data:         []byte(""),
	})

	require.Error(t, err)
	assert.Equal(t, "IMPORT_EMPTY_FILE", err.(*shared.DomainError).Code)
}

func TestImportWebhookLead(t *testing.T) {
	svc, leadRepo, eventRepo := newImportService(t)
	dealershipID := uuid.New()

	payload, _ := json.Marshal(map[string]interface{}{
		"firstName": "Jordan",
		"surname":   "Blake",
		"Email":     "Jordan.Blake@Example.com",
		"mobile":    "512-555-0199",
		"model":     "2024 Accord",
		"budget":    32000, // non-string values are ignored
	})

	lead, err := svc.ImportWebhookLead(context.Background(), WebhookLeadInput{
		DealershipID: dealershipID,
		Provider:     "autotrader",
		Payload:      payload,
	})

	require.NoError(t, err)
	assert.Equal(t, "jordan.blake@example.com", lead.Email)
	assert.Equal(t, "5125550199", lead.Phone)
	assert.Equal(t, "Blake", lead.LastName)
	assert.Equal(t, "2024 Accord", lead.VehicleInterest)
	assert.Equal(t, crm.LeadSourceThirdParty, lead.Source)
	assert.Equal(t, "autotrader", lead.SourceDetail)

	require.Len(t, leadRepo.created, 1)
	require.Len(t, eventRepo.events, 1)
	assert.Equal(t, "webhook:autotrader", eventRepo.events[0].Source)
	assert.Equal(t, audit.IntegrationEventAccepted, eventRepo.events[0].Status)
	require.NotNil(t, eventRepo.events[0].LeadID)
	assert.Equal(t, lead.ID, *eventRepo.events[0].LeadID)
}

func TestImportWebhookLead_TypeAndStatus(t *testing.T) {
	svc, leadRepo, _ := newImportService(t)

	payload, _ := json.Marshal(map[string]interface{}{
		"email":    "jordan.blake@example.com",
		"leadType": "trade in",
		"status":   "contacted",
	})

	lead, err := svc.ImportWebhookLead(context.Background(), WebhookLeadInput{
		DealershipID: uuid.New(),
		Provider:     "autotrader",
		Payload:      payload,
	})

	require.NoError(t, err)
	assert.Equal(t, crm.LeadTypeTradeIn, lead.Type)
	assert.Equal(t, crm.LeadStatusContacted, lead.Status)
	require.Len(t, leadRepo.created, 1)
}

func TestImportWebhookLead_UnknownTypeFallsBack(t *testing.T) {
	svc, _, _ := newImportService(t)

	payload, _ := json.Marshal(map[string]interface{}{
		"email": "jordan.blake@example.com",
		"type":  "WHOLESALE",
	})

	lead, err := svc.ImportWebhookLead(context.Background(), WebhookLeadInput{
		DealershipID: uuid.New(),
		Provider:     "cargurus",
		Payload:      payload,
	})

	require.NoError(t, err)
	assert.Equal(t, crm.LeadTypeGeneral, lead.Type)
	assert.Equal(t, crm.LeadStatusNew, lead.Status)
}

func TestImportWebhookLead_NotAnObject(t *testing.T) {
	svc, leadRepo, eventRepo := newImportService(t)

	_, err := svc.ImportWebhookLead(context.Background(), WebhookLeadInput{
		DealershipID: uuid.New(),
		Provider:     "autotrader",
		Payload:      json.RawMessage(`["not", "an", "object"]`),
	})

	require.Error(t, err)
	assert.Equal(t, "INVALID_PAYLOAD", err.(*shared.DomainError).Code)
	assert.Empty(t, leadRepo.created)
	require.Len(t, eventRepo.events, 1)
	assert.Equal(t, audit.IntegrationEventRejected, eventRepo.events[0].Status)
}

func TestImportWebhookLead_NoContact(t *testing.T) {
	svc, leadRepo, eventRepo := newImportService(t)

	_, err := svc.ImportWebhookLead(context.Background(), WebhookLeadInput{
		DealershipID: uuid.New(),
		Provider:     "cargurus",
		Payload:      json.RawMessage(`{"firstName": "Dana"}`),
	})

	require.Error(t, err)
	assert.Equal(t, "MISSING_CONTACT", err.(*shared.DomainError).Code)
	assert.Empty(t, leadRepo.created)
	require.Len(t, eventRepo.events, 1)
	assert.Equal(t, audit.IntegrationEventRejected, eventRepo.events[0].Status)
}
