package models

import "time"

type Application struct {
	ID          string            `json:"id"`
	RoleID      string            `json:"role_id"`
	ActorID     string            `json:"actor_id"`
	Status      ApplicationStatus `json:"status"`
	CoverLetter string            `json:"cover_letter"`
	ResumeFile  string            `json:"resume_file,omitempty"` // имя загруженного файла
	ResumeURL   string            `json:"resume_url,omitempty"`  // либо внешняя ссылка
	Availability string           `json:"availability"`
	Notes       string            `json:"notes,omitempty"` // заметки режиссера
	SubmittedAt time.Time         `json:"submitted_at"`
	LastUpdated time.Time         `json:"last_updated"`
}

// IsActive - отклик считается активным, пока решение по нему не принято.
func (a *Application) IsActive() bool {
	return !IsTerminalStatus(a.Status)
}
