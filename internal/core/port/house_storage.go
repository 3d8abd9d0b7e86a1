package port

import (
	"context"

	"eri-tracker-service/internal/core/domain"
)

// HouseStoragePort - контракт хранилища строк houses.
type HouseStoragePort interface {
	// ReplaceRegion в одной транзакции приводит множество строк региона к
	// входящему набору: удаляет отсутствующие, обновляет существующие,
	// вставляет новые. До коммита прежнее состояние остается видимым.
	ReplaceRegion(ctx context.Context, region string, houses []domain.House) (*domain.ReconcileReport, error)

	ListAll(ctx context.Context) ([]domain.House, error)

	GetByID(ctx context.Context, id int64) (*domain.House, error)

	// ListWithoutCoordinates возвращает строки с незаполненной широтой
	ListWithoutCoordinates(ctx context.Context) ([]domain.House, error)

	UpdateCoordinates(ctx context.Context, id int64, coords domain.Coordinates, geohash string) error
}
