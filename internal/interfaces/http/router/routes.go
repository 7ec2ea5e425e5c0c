package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dealercrm/backend/internal/domain/identity"
	"github.com/dealercrm/backend/internal/interfaces/http/handler"
	"github.com/dealercrm/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the API mounts
type Handlers struct {
	System      *handler.SystemHandler
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Dealership  *handler.DealershipHandler
	Lead        *handler.LeadHandler
	Appointment *handler.AppointmentHandler
	Task        *handler.TaskHandler
	Message     *handler.MessageHandler
	Import      *handler.ImportHandler
	Advisor     *handler.AdvisorHandler
	Report      *handler.ReportHandler
	Webhook     *handler.WebhookHandler
}

// Chain holds the shared middleware the route groups compose. Authn
// validates the bearer token, Guard resolves the dealership from
// X-Dealership-ID and the caller's membership.
type Chain struct {
	Authn        gin.HandlerFunc
	Guard        gin.HandlerFunc
	WebhookLimit gin.HandlerFunc
}

// Build assembles every API route group. The ordering inside each group is
// authn, then the dealership guard, then role checks, then the handler.
func Build(h Handlers, chain Chain) []RouteRegistrar {
	manager := middleware.RequireRole(identity.RoleAdmin, identity.RoleManager)
	admin := middleware.RequirePlatformOrDealershipAdmin()
	platform := middleware.RequirePlatformAdmin()

	auth := NewGroup("/auth").
		POST("/login", h.Auth.Login).
		POST("/refresh", h.Auth.RefreshToken).
		POST("/logout", chain.Authn, h.Auth.Logout).
		GET("/me", chain.Authn, h.Auth.Me).
		POST("/password", chain.Authn, h.Auth.ChangePassword)

	leads := NewGroup("/leads").
		Use(chain.Authn, chain.Guard).
		POST("", h.Lead.CreateLead).
		GET("", h.Lead.ListLeads).
		POST("/import", manager, h.Import.ImportLeads).
		GET("/:id", h.Lead.GetLead).
		PUT("/:id", h.Lead.UpdateLead).
		POST("/:id/transition", h.Lead.TransitionLead).
		POST("/:id/lost", h.Lead.MarkLost).
		POST("/:id/assign", manager, h.Lead.AssignLead).
		DELETE("/:id/assign", manager, h.Lead.UnassignLead).
		GET("/:id/score", h.Lead.ExplainScore).
		POST("/:id/score/recompute", h.Lead.RecomputeScore).
		PUT("/:id/score/override", manager, h.Lead.OverrideScore).
		DELETE("/:id/score/override", manager, h.Lead.ClearScoreOverride).
		GET("/:id/advice", h.Advisor.Suggest).
		POST("/:id/appointments", h.Appointment.Schedule).
		GET("/:id/appointments", h.Appointment.ListForLead).
		POST("/:id/messages", h.Message.Send).
		GET("/:id/messages", h.Message.ListForLead).
		GET("/:id/tasks", h.Task.ListForLead)

	appointments := NewGroup("/appointments").
		Use(chain.Authn, chain.Guard).
		GET("/upcoming", h.Appointment.ListUpcoming).
		POST("/:id/confirm", h.Appointment.Confirm).
		POST("/:id/show", h.Appointment.MarkShowed).
		POST("/:id/no-show", h.Appointment.MarkNoShow).
		POST("/:id/cancel", h.Appointment.Cancel).
		PUT("/:id/schedule", h.Appointment.Reschedule)

	tasks := NewGroup("/tasks").
		Use(chain.Authn, chain.Guard).
		POST("", h.Task.Create).
		GET("/mine", h.Task.ListMine).
		POST("/:id/complete", h.Task.Complete).
		POST("/:id/cancel", h.Task.Cancel)

	reports := NewGroup("/reports").
		Use(chain.Authn, chain.Guard, manager).
		GET("/funnel", h.Report.LeadFunnel).
		GET("/sources", h.Report.IngestionBySource)

	users := NewGroup("/users").
		POST("", chain.Authn, h.User.Register).
		GET("", chain.Authn, chain.Guard, admin, h.User.ListDealershipUsers).
		POST("/memberships", chain.Authn, chain.Guard, admin, h.User.GrantMembership).
		PUT("/:id/role", chain.Authn, chain.Guard, admin, h.User.ChangeRole).
		DELETE("/:id/membership", chain.Authn, chain.Guard, admin, h.User.RevokeMembership)

	dealerships := NewGroup("/dealerships").
		Use(chain.Authn, platform).
		POST("", h.Dealership.Create).
		GET("", h.Dealership.List).
		GET("/:id", h.Dealership.Get).
		DELETE("/:id", h.Dealership.Deactivate)

	webhooks := NewGroup("/webhooks")
	if chain.WebhookLimit != nil {
		webhooks.Use(chain.WebhookLimit)
	}
	webhooks.
		POST("/sms/:dealership_id", h.Webhook.InboundSMS).
		POST("/leads/:dealership_id/:provider", h.Webhook.InboundLead)

	return []RouteRegistrar{auth, leads, appointments, tasks, reports, users, dealerships, webhooks}
}

// MountSystem wires liveness endpoints outside the versioned API
func MountSystem(engine *gin.Engine, h *handler.SystemHandler) {
	engine.GET("/health", h.Health)
	engine.GET("/ready", h.Ready)
}
