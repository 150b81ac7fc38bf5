package dto

import "casthub_backend/internal/models"

type CreateApplicationRequest struct {
	CoverLetter  string `json:"cover_letter" validate:"required"`
	Availability string `json:"availability" validate:"required"`
	ResumeFile   string `json:"resume_file"`
	ResumeURL    string `json:"resume_url" validate:"omitempty,url"`
}

// UpdateApplicationContentRequest - правка содержимого отклика актером.
// Разрешена только пока отклик в статусе pending.
type UpdateApplicationContentRequest struct {
	CoverLetter  *string `json:"cover_letter"`
	Availability *string `json:"availability"`
	ResumeFile   *string `json:"resume_file"`
	ResumeURL    *string `json:"resume_url" validate:"omitempty,url"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

type ApplicationListQuery struct {
	Status string `form:"status"`
	Sort   string `form:"sort"`
	Page   int    `form:"page" validate:"gte=0"`
	Limit  int    `form:"limit" validate:"gte=0"`
}

// ApplicationStats - сводка по откликам роли для режиссера
type ApplicationStats struct {
	Total    int                              `json:"total"`
	ByStatus map[models.ApplicationStatus]int `json:"by_status"`
}
