package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcrm "github.com/dealercrm/backend/internal/application/crm"
)

// TaskHandler handles follow-up task HTTP requests
type TaskHandler struct {
	BaseHandler
	service *appcrm.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(service *appcrm.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreateTaskRequest creates a follow-up task on a lead
type CreateTaskRequest struct {
	LeadID   string     `json:"lead_id" binding:"required,uuid"`
	Title    string     `json:"title" binding:"required,max=200"`
	DueAt    *time.Time `json:"due_at"`
	Assignee string     `json:"assignee" binding:"omitempty,uuid"`
}

// Create handles POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	dealershipID, err := getDealershipID(c)
	if err != nil {
		h.InternalError(c, "Dealership context missing")
		return
	}

	leadID, err := uuid.Parse(req.LeadID)
	if err != nil {
		h.BadRequest(c, "Invalid lead ID")
		return
	}

	input := appcrm.CreateTaskInput{
		DealershipID: dealershipID,
		LeadID:       leadID,
		Title:        req.Title,
		DueAt:        req.DueAt,
	}
	if req.Assignee != "" {
		assignee, err := uuid.Parse(req.Assignee)
		if err != nil {
			h.BadRequest(c, "Invalid assignee ID")
			return
		}
		input.AssigneeID = &assignee
	}

	task, err := h.service.CreateTask(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, taskResponse(task))
}

// Complete handles POST /tasks/:id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	dealershipID, taskID, ok := h.taskScope(c)
	if !ok {
		return
	}

	task, err := h.service.CompleteTask(c.Request.Context(), dealershipID, taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, taskResponse(task))
}

// Cancel handles POST /tasks/:id/cancel
func (h *TaskHandler) Cancel(c *gin.Context) {
	dealershipID, taskID, ok := h.taskScope(c)
	if !ok {
		return
	}

	task, err := h.service.CancelTask(c.Request.Context(), dealershipID, taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, taskResponse(task))
}

// ListForLead handles GET /leads/:id/tasks
func (h *TaskHandler) ListForLead(c *gin.Context) {
	dealershipID, leadID, ok := h.taskScope(c)
	if !ok {
		return
	}

	tasks, err := h.service.ListLeadTasks(c.Request.Context(), dealershipID, leadID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, taskResponses(tasks))
}

// ListMine handles GET /tasks/mine
func (h *TaskHandler) ListMine(c *gin.Context) {
	dealershipID, err := getDealershipID(c)
	if err != nil {
		h.InternalError(c, "Dealership context missing")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tasks, err := h.service.ListOpenTasks(c.Request.Context(), dealershipID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, taskResponses(tasks))
}

func (h *TaskHandler) taskScope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	dealershipID, err := getDealershipID(c)
	if err != nil {
		h.InternalError(c, "Dealership context missing")
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ID")
		return uuid.Nil, uuid.Nil, false
	}

	return dealershipID, id, true
}
