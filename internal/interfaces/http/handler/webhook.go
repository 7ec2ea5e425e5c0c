package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appcrm "github.com/dealercrm/backend/internal/application/crm"
	"github.com/dealercrm/backend/internal/application/ingestion"
	"github.com/dealercrm/backend/internal/domain/crm"
	"github.com/dealercrm/backend/internal/infrastructure/csvimport"
	"github.com/dealercrm/backend/internal/infrastructure/sms"
	"github.com/dealercrm/backend/internal/interfaces/http/dto"
)

// SignatureHeaderKey carries the provider's HMAC over the request URL and
// sorted form parameters
const SignatureHeaderKey = "X-Webhook-Signature"

// WebhookHandler handles provider-facing webhook HTTP requests. These routes
// are public: the SMS webhook authenticates with an HMAC signature instead
// of a bearer token, the lead webhook with a provider token checked upstream.
type WebhookHandler struct {
	BaseHandler
	importService  *ingestion.ImportService
	leadService    *appcrm.LeadService
	messageService *appcrm.MessageService
	leadRepo       crm.LeadRepository
	smsSecret      string
	logger         *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(
	importService *ingestion.ImportService,
	leadService *appcrm.LeadService,
	messageService *appcrm.MessageService,
	leadRepo crm.LeadRepository,
	smsSecret string,
	logger *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		importService:  importService,
		leadService:    leadService,
		messageService: messageService,
		leadRepo:       leadRepo,
		smsSecret:      smsSecret,
		logger:         logger,
	}
}

// InboundLead handles POST /webhooks/leads/:dealership_id/:provider. The
// payload shape varies per provider; header aliasing normalizes it.
func (h *WebhookHandler) InboundLead(c *gin.Context) {
	dealershipID, err := uuid.Parse(c.Param("dealership_id"))
	if err != nil {
		h.BadRequest(c, "Invalid dealership ID")
		return
	}
	provider := c.Param("provider")
	if provider == "" {
		h.BadRequest(c, "Provider is required")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	lead, err := h.importService.ImportWebhookLead(c.Request.Context(), ingestion.WebhookLeadInput{
		DealershipID: dealershipID,
		Provider:     provider,
		Payload:      json.RawMessage(body),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, leadResponse(lead))
}

// InboundSMS handles POST /webhooks/sms/:dealership_id. The gateway posts a
// form-encoded notification signed over the request URL and sorted form
// parameters; an unsigned or mis-signed request is rejected before any
// processing.
func (h *WebhookHandler) InboundSMS(c *gin.Context) {
	dealershipID, err := uuid.Parse(c.Param("dealership_id"))
	if err != nil {
		h.BadRequest(c, "Invalid dealership ID")
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		h.BadRequest(c, "Failed to parse request body")
		return
	}

	signature := c.GetHeader(SignatureHeaderKey)
	if !sms.VerifySignature(h.smsSecret, webhookRequestURL(c), c.Request.PostForm, signature) {
		h.logger.Warn("Rejected SMS webhook with bad signature",
			zap.String("dealership_id", dealershipID.String()),
			zap.String("remote", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.ErrCodeUnauthorized, "Invalid webhook signature"))
		return
	}

	from := c.Request.PostForm.Get("From")
	text := c.Request.PostForm.Get("Body")
	if from == "" || text == "" {
		h.BadRequest(c, "Webhook payload requires From and Body")
		return
	}

	lead, err := h.resolveLeadByPhone(c, dealershipID, from)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	msg, err := h.messageService.RecordInboundMessage(c.Request.Context(), appcrm.RecordInboundMessageInput{
		DealershipID: dealershipID,
		LeadID:       lead.ID,
		Channel:      crm.MessageChannelSMS,
		Body:         text,
		ExternalID:   c.Request.PostForm.Get("MessageSid"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, messageResponse(msg))
}

// webhookRequestURL reconstructs the public URL the gateway signed. The
// scheme comes from the proxy header when the service runs behind TLS
// termination.
func webhookRequestURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host + c.Request.RequestURI
}

// resolveLeadByPhone finds the lead matching the sender, creating a new
// PHONE-source lead when the number is unknown
func (h *WebhookHandler) resolveLeadByPhone(c *gin.Context, dealershipID uuid.UUID, from string) (*crm.Lead, error) {
	phone := csvimport.NormalizePhone(from)

	leads, err := h.leadRepo.FindByPhone(c.Request.Context(), dealershipID, phone)
	if err == nil && len(leads) > 0 {
		return leads[0], nil
	}

	return h.leadService.CreateLead(c.Request.Context(), appcrm.CreateLeadInput{
		DealershipID: dealershipID,
		Phone:        phone,
		Source:       crm.LeadSourcePhone,
		SourceDetail: "sms_webhook",
	})
}
