package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcrm "github.com/dealercrm/backend/internal/application/crm"
	"github.com/dealercrm/backend/internal/domain/crm"
)

// MessageHandler handles lead messaging HTTP requests
type MessageHandler struct {
	BaseHandler
	service *appcrm.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(service *appcrm.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// SendMessageRequest sends an outbound message on a lead
type SendMessageRequest struct {
	Channel string `json:"channel" binding:"required,oneof=SMS EMAIL CALL"`
	Body    string `json:"body" binding:"required,max=4000"`
	From    string `json:"from" binding:"omitempty,max=100"`
	To      string `json:"to" binding:"omitempty,max=100"`
}

// Send handles POST /leads/:id/messages
func (h *MessageHandler) Send(c *gin.Context) {
	dealershipID, leadID, ok := h.msgScope(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	input := appcrm.SendMessageInput{
		DealershipID: dealershipID,
		LeadID:       leadID,
		Channel:      crm.MessageChannel(req.Channel),
		Body:         req.Body,
		From:         req.From,
		To:           req.To,
	}
	if userID, err := getUserID(c); err == nil {
		input.SentBy = &userID
	}

	msg, err := h.service.SendMessage(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, messageResponse(msg))
}

// ListForLead handles GET /leads/:id/messages
func (h *MessageHandler) ListForLead(c *gin.Context) {
	dealershipID, leadID, ok := h.msgScope(c)
	if !ok {
		return
	}

	msgs, err := h.service.ListLeadMessages(c.Request.Context(), dealershipID, leadID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, messageResponses(msgs))
}

func (h *MessageHandler) msgScope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	dealershipID, err := getDealershipID(c)
	if err != nil {
		h.InternalError(c, "Dealership context missing")
		return uuid.Nil, uuid.Nil, false
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lead ID")
		return uuid.Nil, uuid.Nil, false
	}

	return dealershipID, leadID, true
}
