package apperrors

import (
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для ошибок бизнес-логики домена кастингов (роли и отклики).
*/

// =========================================================================
// Фабричные ФУНКЦИИ (Используются для оборачивания ошибок, напр. из репозитория)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
// Используется, когда ошибка стора (store.ErrNotFound)
// должна быть преобразована в AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidTransition - фабрика для запрещенных переходов статуса (409)
func ErrInvalidTransition(from, to string) *AppError {
	return New(
		CodeInvalidTransition,
		"application",
		"Status transition from '"+from+"' to '"+to+"' is not allowed",
		http.StatusConflict,
	)
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ (Для частых, статичных ошибок)
// =========================================================================

// ErrInsufficientPermissions - используется, когда пользователь не владелец
// сущности или действие не предусмотрено для его типа аккаунта.
// Текст намеренно не раскрывает, существует ли сущность.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrInvalidUserRole - операция не предусмотрена для роли пользователя.
var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

// --- Roles ---

// ErrRoleClosed - отклик на закрытую роль невозможен.
var ErrRoleClosed = New(
	CodeConflict,
	"role",
	"Role is closed and no longer accepts applications",
	http.StatusConflict,
)

// ErrRoleHasActiveApplications - роль нельзя удалить, пока по ней есть активные отклики.
var ErrRoleHasActiveApplications = New(
	CodeConflict,
	"role",
	"Role has active applications and cannot be deleted",
	http.StatusConflict,
)

// --- Applications ---

// ErrDuplicateApplication - у актера уже есть активный отклик на эту роль.
var ErrDuplicateApplication = New(
	CodeConflict,
	"application",
	"An active application for this role already exists",
	http.StatusConflict,
)

// ErrApplicationNotEditable - содержимое отклика можно менять только в статусе pending.
var ErrApplicationNotEditable = New(
	CodeConflict,
	"application",
	"Application content can only be edited while pending",
	http.StatusConflict,
)

// ErrConcurrentModification - обнаружена гонка записи; клиент может перечитать и повторить.
var ErrConcurrentModification = New(
	CodeConflict,
	"storage",
	"Concurrent modification detected, please retry",
	http.StatusConflict,
)
