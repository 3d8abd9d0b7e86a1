package usecases_port

import (
	"context"

	"eri-tracker-service/internal/core/domain"
)

// RefreshRegionUseCase запускает полный прогон конвейера по региону.
type RefreshRegionUseCase interface {
	Execute(ctx context.Context, region string) (*domain.RefreshReport, error)
}
