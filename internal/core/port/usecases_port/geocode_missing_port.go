package usecases_port

import (
	"context"

	"eri-tracker-service/internal/core/domain"
)

// GeocodeMissingUseCase догеокодирует строки без координат.
type GeocodeMissingUseCase interface {
	Execute(ctx context.Context) (*domain.GeocodeReport, error)
}
