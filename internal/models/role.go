package models

import "time"

type Role struct {
	ID           string     `json:"id"`
	DirectorID   string     `json:"director_id"`
	Title        string     `json:"title"`
	Genre        string     `json:"genre"`
	Description  string     `json:"description"`
	Requirements string     `json:"requirements"`
	Location     string     `json:"location"`
	Deadline     time.Time  `json:"deadline"`
	Budget       string     `json:"budget"` // текст вида "$5,000/day"
	CastSize     int        `json:"cast_size"`
	Duration     string     `json:"duration"`
	Status       RoleStatus `json:"status"`
	IsFeatured   bool       `json:"is_featured"`
	IsBoosted    bool       `json:"is_boosted"`
	PostedDate   time.Time  `json:"posted_date"`

	ApplicationCount int `json:"application_count"`
	ViewCount        int `json:"view_count"`
}

// EffectiveStatus возвращает статус с учетом дедлайна: роль с прошедшим
// дедлайном считается закрытой, даже если воркер еще не записал это в стор.
func (r *Role) EffectiveStatus(now time.Time) RoleStatus {
	if r.Status == RoleStatusOpen && !r.Deadline.IsZero() && r.Deadline.Before(now) {
		return RoleStatusClosed
	}
	return r.Status
}

// IsOpen сообщает, принимает ли роль отклики в данный момент.
func (r *Role) IsOpen(now time.Time) bool {
	return r.EffectiveStatus(now) == RoleStatusOpen
}
