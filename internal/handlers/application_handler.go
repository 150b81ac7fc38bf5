package handlers

import (
	"net/http"

	"casthub_backend/internal/middleware"
	"casthub_backend/internal/models"
	"casthub_backend/internal/services"
	"casthub_backend/internal/services/dto"
	"casthub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService *services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(r *gin.RouterGroup) {
	applications := r.Group("/applications")
	applications.Use(middleware.AuthMiddleware())
	{
		// Actor routes
		applications.POST("/roles/:roleId", middleware.RoleMiddleware(models.UserRoleActor), h.SubmitApplication)
		applications.GET("/my", middleware.RoleMiddleware(models.UserRoleActor), h.GetMyApplications)
		applications.PUT("/:applicationId", middleware.RoleMiddleware(models.UserRoleActor), h.UpdateContent)
		applications.DELETE("/:applicationId", middleware.RoleMiddleware(models.UserRoleActor), h.DeleteApplication)

		// Director routes
		applications.GET("/incoming", middleware.RoleMiddleware(models.UserRoleDirector), h.GetIncomingApplications)
		applications.GET("/roles/:roleId/list", middleware.RoleMiddleware(models.UserRoleDirector), h.GetRoleApplications)
		applications.GET("/roles/:roleId/stats", middleware.RoleMiddleware(models.UserRoleDirector), h.GetRoleStats)
		applications.PUT("/:applicationId/notes", middleware.RoleMiddleware(models.UserRoleDirector), h.UpdateNotes)

		// Common routes
		applications.GET("/:applicationId", h.GetApplication)
		applications.PUT("/:applicationId/status", h.UpdateStatus)
	}
}

// --- Actor handlers ---

func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}
	roleID := c.Param("roleId")

	var req dto.CreateApplicationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.SubmitApplication(c.Request.Context(), identity, roleID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Application submitted successfully",
		"application": app,
	})
}

func (h *ApplicationHandler) GetMyApplications(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var q dto.ApplicationListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	items, err := h.applicationService.ListActorApplications(c.Request.Context(), identity, q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": items,
		"total":        len(items),
	})
}

func (h *ApplicationHandler) UpdateContent(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	var req dto.UpdateApplicationContentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.UpdateContent(c.Request.Context(), identity, applicationID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application updated successfully",
		"application": app,
	})
}

func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	if err := h.applicationService.DeleteApplication(c.Request.Context(), identity, applicationID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Application deleted successfully"})
}

// --- Director handlers ---

func (h *ApplicationHandler) GetIncomingApplications(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var q dto.ApplicationListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	items, err := h.applicationService.ListDirectorApplications(c.Request.Context(), identity, q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": items,
		"total":        len(items),
	})
}

func (h *ApplicationHandler) GetRoleApplications(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}
	roleID := c.Param("roleId")

	var q dto.ApplicationListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	items, err := h.applicationService.ListRoleApplications(c.Request.Context(), identity, roleID, q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": items,
		"total":        len(items),
	})
}

func (h *ApplicationHandler) GetRoleStats(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}
	roleID := c.Param("roleId")

	stats, err := h.applicationService.GetRoleStats(c.Request.Context(), identity, roleID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *ApplicationHandler) UpdateNotes(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	var req dto.UpdateNotesRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.UpdateNotes(c.Request.Context(), identity, applicationID, req.Notes)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Notes updated successfully",
		"application": app,
	})
}

// --- Common handlers ---

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	item, err := h.applicationService.GetApplication(c.Request.Context(), identity, applicationID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// UpdateStatus обслуживает обе стороны: режиссер двигает отклик вперед,
// актер отзывает свой. Кто и какой переход вправе сделать, решает сервис.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	var req dto.UpdateStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	newStatus := models.ApplicationStatus(req.Status)
	if !models.ValidApplicationStatus(newStatus) {
		h.HandleServiceError(c, apperrors.ValidationError(map[string]string{
			"status": "must be one of: pending, shortlisted, accepted, rejected, withdrawn",
		}))
		return
	}

	app, err := h.applicationService.TransitionStatus(c.Request.Context(), identity, applicationID, newStatus)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application status updated successfully",
		"application": app,
	})
}
