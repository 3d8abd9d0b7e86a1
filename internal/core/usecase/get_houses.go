package usecase

import (
	"context"
	"fmt"

	"eri-tracker-service/internal/core/domain"
	"eri-tracker-service/internal/core/port"
)

// GetHousesUseCase - чтение сохраненных объектов для API.
type GetHousesUseCase struct {
	storage port.HouseStoragePort
}

func NewGetHousesUseCase(storage port.HouseStoragePort) *GetHousesUseCase {
	return &GetHousesUseCase{storage: storage}
}

func (uc *GetHousesUseCase) List(ctx context.Context) ([]domain.House, error) {
	houses, err := uc.storage.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list houses: %w", err)
	}
	return houses, nil
}

func (uc *GetHousesUseCase) GetByID(ctx context.Context, id int64) (*domain.House, error) {
	house, err := uc.storage.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get house %d: %w", id, err)
	}
	return house, nil
}
