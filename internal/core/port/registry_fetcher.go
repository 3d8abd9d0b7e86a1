package port

import (
	"context"

	"eri-tracker-service/internal/core/domain"
)

// RegistryFetcherPort - контракт постраничного чтения реестра.
// Пустая страница означает конец данных; ошибка трактуется вызывающей
// стороной так же, как пустая страница (прогон обрезается, см. журнал).
type RegistryFetcherPort interface {
	FetchPage(ctx context.Context, pageNumber int) ([]domain.Listing, error)
}
