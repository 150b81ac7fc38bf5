package models

// applicationTransitions описывает машину статусов отклика:
// для каждой пары (откуда, куда) указано, кто вправе выполнить переход.
// Пары, которых нет в таблице, запрещены. accepted/rejected/withdrawn - терминальные.
var applicationTransitions = map[ApplicationStatus]map[ApplicationStatus]UserRole{
	ApplicationStatusPending: {
		ApplicationStatusShortlisted: UserRoleDirector,
		ApplicationStatusAccepted:    UserRoleDirector,
		ApplicationStatusRejected:    UserRoleDirector,
		ApplicationStatusWithdrawn:   UserRoleActor,
	},
	ApplicationStatusShortlisted: {
		ApplicationStatusAccepted:  UserRoleDirector,
		ApplicationStatusRejected:  UserRoleDirector,
		ApplicationStatusWithdrawn: UserRoleActor,
	},
}

// CanTransition возвращает роль, которой разрешен переход from -> to,
// и false если переход не предусмотрен таблицей.
func CanTransition(from, to ApplicationStatus) (UserRole, bool) {
	targets, ok := applicationTransitions[from]
	if !ok {
		return "", false
	}
	role, ok := targets[to]
	return role, ok
}

// IsTerminalStatus сообщает, есть ли у статуса исходящие переходы.
func IsTerminalStatus(s ApplicationStatus) bool {
	return len(applicationTransitions[s]) == 0
}

// ValidApplicationStatus проверяет, что строка - один из известных статусов.
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusShortlisted,
		ApplicationStatusAccepted, ApplicationStatusRejected, ApplicationStatusWithdrawn:
		return true
	}
	return false
}
