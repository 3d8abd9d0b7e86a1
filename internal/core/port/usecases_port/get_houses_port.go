package usecases_port

import (
	"context"

	"eri-tracker-service/internal/core/domain"
)

// GetHousesUseCase - чтение сохраненных объектов для API
type GetHousesUseCase interface {
	List(ctx context.Context) ([]domain.House, error)
	GetByID(ctx context.Context, id int64) (*domain.House, error)
}
