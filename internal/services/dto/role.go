package dto

import "time"

type CreateRoleRequest struct {
	Title        string    `json:"title" validate:"required"`
	Genre        string    `json:"genre" validate:"required"`
	Description  string    `json:"description" validate:"required"`
	Requirements string    `json:"requirements"`
	Location     string    `json:"location" validate:"required"`
	Deadline     time.Time `json:"deadline" validate:"required"`
	Budget       string    `json:"budget"`
	CastSize     int       `json:"cast_size" validate:"gte=0"`
	Duration     string    `json:"duration"`
	IsFeatured   bool      `json:"is_featured"`
	IsBoosted    bool      `json:"is_boosted"`
}

// UpdateRoleRequest - частичное обновление: nil-поля не трогаются.
// Счетчики и служебные поля обновлению не подлежат.
type UpdateRoleRequest struct {
	Title        *string    `json:"title"`
	Genre        *string    `json:"genre"`
	Description  *string    `json:"description"`
	Requirements *string    `json:"requirements"`
	Location     *string    `json:"location"`
	Deadline     *time.Time `json:"deadline"`
	Budget       *string    `json:"budget"`
	CastSize     *int       `json:"cast_size" validate:"omitempty,gte=0"`
	Duration     *string    `json:"duration"`
	IsFeatured   *bool      `json:"is_featured"`
	IsBoosted    *bool      `json:"is_boosted"`
}

type RoleListQuery struct {
	Status string `form:"status"`
	Genre  string `form:"genre"`
	Search string `form:"search"`
	Sort   string `form:"sort"`
	Page   int    `form:"page" validate:"gte=0"`
	Limit  int    `form:"limit" validate:"gte=0"`
}
