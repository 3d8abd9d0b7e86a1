package port

import (
	"context"

	"eri-tracker-service/internal/core/domain"
)

// CoordinateResolverPort - стратегия определения координат объекта.
// Возвращает (nil, nil), когда координаты определить не удалось: это штатный
// исход, а не ошибка. Любой сбой стратегии не должен прерывать конвейер.
type CoordinateResolverPort interface {
	Resolve(ctx context.Context, listing domain.Listing) (*domain.Coordinates, error)
}
