package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// IdentityContextKey - это ключ, по которому мы храним auth.Identity в context
const IdentityContextKey = contextKey("identity")
