package out

import "context"

// SessionStorePort ключ-значение для контекста сессии.
// Get возвращает domain.ErrKeyNotFound, если ключа нет.
type SessionStorePort interface {
	Get(ctx context.Context, key string) (string, error)
	// GetMany читает ключи одним запросом, отсутствующих ключей в ответе нет
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
	// SetExclusive записывает key и удаляет exclusive одной операцией
	SetExclusive(ctx context.Context, key, value string, exclusive ...string) error
	Delete(ctx context.Context, keys ...string) error
}
