package auth

import (
	"casthub_backend/internal/models"
	"casthub_backend/pkg/apperrors"
)

// Identity - действующий пользователь, как его отдает identity provider.
// Сервисы не знают про JWT: им достаточно id и типа аккаунта.
type Identity struct {
	ID   string
	Role models.UserRole
}

// Valid - у идентичности есть id и известный тип аккаунта
func (i Identity) Valid() bool {
	return i.ID != "" && (i.Role == models.UserRoleActor || i.Role == models.UserRoleDirector)
}

// Guard проверяет владение перед мутирующими операциями.
// Закрыт по умолчанию: любая неоднозначность = отказ, никогда не no-op.
// Текст ошибки не раскрывает, существует ли сущность.

// RequireDirectorOwner - действующий пользователь должен быть режиссером-владельцем
func RequireDirectorOwner(identity Identity, directorID string) error {
	if !identity.Valid() || identity.Role != models.UserRoleDirector || identity.ID != directorID {
		return apperrors.ErrInsufficientPermissions
	}
	return nil
}

// RequireActorOwner - действующий пользователь должен быть актером-владельцем
func RequireActorOwner(identity Identity, actorID string) error {
	if !identity.Valid() || identity.Role != models.UserRoleActor || identity.ID != actorID {
		return apperrors.ErrInsufficientPermissions
	}
	return nil
}

// RequireRole - операция доступна только аккаунтам данного типа
func RequireRole(identity Identity, role models.UserRole) error {
	if !identity.Valid() || identity.Role != role {
		return apperrors.ErrInsufficientPermissions
	}
	return nil
}
