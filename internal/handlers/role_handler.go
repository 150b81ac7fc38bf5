package handlers

import (
	"net/http"

	"casthub_backend/internal/middleware"
	"casthub_backend/internal/models"
	"casthub_backend/internal/query"
	"casthub_backend/internal/repositories"
	"casthub_backend/internal/services"
	"casthub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	*BaseHandler
	roleService *services.RoleService
}

func NewRoleHandler(base *BaseHandler, roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{
		BaseHandler: base,
		roleService: roleService,
	}
}

func (h *RoleHandler) RegisterRoutes(r *gin.RouterGroup) {
	roles := r.Group("/roles")
	{
		// Public routes
		roles.GET("", h.ListRoles)
		roles.GET("/:roleId", h.GetRole)

		// Director routes
		protected := roles.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("", middleware.RoleMiddleware(models.UserRoleDirector), h.CreateRole)
			protected.GET("/my/list", middleware.RoleMiddleware(models.UserRoleDirector), h.GetMyRoles)
			protected.PUT("/:roleId", middleware.RoleMiddleware(models.UserRoleDirector), h.UpdateRole)
			protected.PUT("/:roleId/close", middleware.RoleMiddleware(models.UserRoleDirector), h.CloseRole)
			protected.DELETE("/:roleId", middleware.RoleMiddleware(models.UserRoleDirector), h.DeleteRole)
		}
	}
}

// --- Director handlers ---

func (h *RoleHandler) CreateRole(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), identity, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Role created successfully",
		"role":    role,
	})
}

func (h *RoleHandler) GetMyRoles(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}

	var q dto.RoleListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	roles, err := h.roleService.ListMyRoles(c.Request.Context(), identity, roleQueryFromDTO(q))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"roles": roles,
		"total": len(roles),
	})
}

func (h *RoleHandler) UpdateRole(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}
	roleID := c.Param("roleId")

	var req dto.UpdateRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	role, err := h.roleService.UpdateRole(c.Request.Context(), identity, roleID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role updated successfully",
		"role":    role,
	})
}

func (h *RoleHandler) CloseRole(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}
	roleID := c.Param("roleId")

	if err := h.roleService.CloseRole(c.Request.Context(), identity, roleID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role closed successfully"})
}

func (h *RoleHandler) DeleteRole(c *gin.Context) {
	identity, ok := h.GetIdentity(c)
	if !ok {
		return
	}
	roleID := c.Param("roleId")

	if err := h.roleService.DeleteRole(c.Request.Context(), identity, roleID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role deleted successfully"})
}

// --- Public handlers ---

func (h *RoleHandler) ListRoles(c *gin.Context) {
	var q dto.RoleListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	roles, err := h.roleService.ListRoles(c.Request.Context(), roleQueryFromDTO(q))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"roles": roles,
		"total": len(roles),
	})
}

func (h *RoleHandler) GetRole(c *gin.Context) {
	roleID := c.Param("roleId")

	// Просмотр публичный: идентичность опциональна, нужна только
	// чтобы не накручивать просмотры владельцу
	requesterID := middleware.IdentityFromContext(c).ID

	role, err := h.roleService.GetRole(c.Request.Context(), roleID, requesterID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"role": role})
}

func roleQueryFromDTO(q dto.RoleListQuery) repositories.RoleQuery {
	return repositories.RoleQuery{
		Status: q.Status,
		Genre:  q.Genre,
		Search: q.Search,
		Sort:   query.Sort(q.Sort),
		Page:   q.Page,
		Limit:  q.Limit,
	}
}
