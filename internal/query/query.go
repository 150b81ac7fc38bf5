package query

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"casthub_backend/internal/models"
)

// Sort - ключ сортировки списков
type Sort string

const (
	SortNewest    Sort = "newest"
	SortOldest    Sort = "oldest"
	SortDeadline  Sort = "deadline"
	SortBudget    Sort = "budget"     // по убыванию бюджета
	SortBudgetAsc Sort = "budget_asc" // по возрастанию бюджета
)

// StatusAll отключает фильтр по статусу
const StatusAll = "all"

// ApplicationItem - отклик вместе с ролью, на которую он подан.
// Роль нужна для сортировок по дедлайну/бюджету и для выдачи режиссеру.
type ApplicationItem struct {
	Application *models.Application `json:"application"`
	Role        *models.Role        `json:"role,omitempty"`
}

// MatchesStatus - точное совпадение статуса; пустой фильтр и "all" пропускают все.
func MatchesStatus(status, filter string) bool {
	if filter == "" || filter == StatusAll {
		return true
	}
	return status == filter
}

// MatchesText - регистронезависимый поиск подстроки по любому из полей (OR).
// Пустой запрос пропускает все.
func MatchesText(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// ParseBudget извлекает числовое значение из текстового бюджета
// вида "$5,000/day": отбрасываются все символы кроме цифр, остаток
// парсится как целое. Пустые и нечисловые бюджеты дают ok=false и
// при сортировке всегда оказываются в конце списка.
func ParseBudget(budget string) (int64, bool) {
	var digits strings.Builder
	for _, r := range budget {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	value, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// SortRoles сортирует роли по ключу. Сортировка стабильная:
// элементы с равными ключами сохраняют исходный порядок.
func SortRoles(roles []*models.Role, s Sort) {
	switch s {
	case SortOldest:
		sort.SliceStable(roles, func(i, j int) bool {
			return roles[i].PostedDate.Before(roles[j].PostedDate)
		})
	case SortDeadline:
		sort.SliceStable(roles, func(i, j int) bool {
			return roles[i].Deadline.Before(roles[j].Deadline)
		})
	case SortBudget:
		sort.SliceStable(roles, func(i, j int) bool {
			return budgetBefore(roles[i].Budget, roles[j].Budget, false)
		})
	case SortBudgetAsc:
		sort.SliceStable(roles, func(i, j int) bool {
			return budgetBefore(roles[i].Budget, roles[j].Budget, true)
		})
	default: // newest
		sort.SliceStable(roles, func(i, j int) bool {
			return roles[j].PostedDate.Before(roles[i].PostedDate)
		})
	}
}

// SortApplications сортирует отклики; deadline и budget берутся из роли.
func SortApplications(items []*ApplicationItem, s Sort) {
	switch s {
	case SortOldest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Application.SubmittedAt.Before(items[j].Application.SubmittedAt)
		})
	case SortDeadline:
		sort.SliceStable(items, func(i, j int) bool {
			return roleDeadline(items[i].Role).Before(roleDeadline(items[j].Role))
		})
	case SortBudget:
		sort.SliceStable(items, func(i, j int) bool {
			return budgetBefore(roleBudget(items[i].Role), roleBudget(items[j].Role), false)
		})
	case SortBudgetAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return budgetBefore(roleBudget(items[i].Role), roleBudget(items[j].Role), true)
		})
	default: // newest
		sort.SliceStable(items, func(i, j int) bool {
			return items[j].Application.SubmittedAt.Before(items[i].Application.SubmittedAt)
		})
	}
}

// PageBounds возвращает границы [start, end) для опциональной пагинации.
// limit <= 0 означает "без пагинации".
func PageBounds(total, page, limit int) (int, int) {
	if limit <= 0 {
		return 0, total
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}

// budgetBefore: непарсящиеся бюджеты уходят в конец списка при любом
// направлении сортировки; между собой сохраняют исходный порядок.
func budgetBefore(a, b string, asc bool) bool {
	av, aok := ParseBudget(a)
	bv, bok := ParseBudget(b)
	if !aok {
		return false
	}
	if !bok {
		return true
	}
	if asc {
		return av < bv
	}
	return av > bv
}

func roleDeadline(r *models.Role) time.Time {
	if r == nil {
		return time.Time{}
	}
	return r.Deadline
}

func roleBudget(r *models.Role) string {
	if r == nil {
		return ""
	}
	return r.Budget
}
