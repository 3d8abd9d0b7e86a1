package usecase

import (
	"context"
	"fmt"
	"time"

	"eri-tracker-service/internal/contextkeys"
	"eri-tracker-service/internal/core/domain"
	"eri-tracker-service/internal/core/port"

	"github.com/mmcloughlin/geohash"
)

// GeocodeMissingUseCase - фоновое догеокодирование: находит строки без
// координат и пытается разрешить их адреса через геокодер.
type GeocodeMissingUseCase struct {
	storage      port.HouseStoragePort
	resolver     port.CoordinateResolverPort
	listingDelay time.Duration
}

// NewGeocodeMissingUseCase создает новый экземпляр use case.
func NewGeocodeMissingUseCase(storage port.HouseStoragePort, resolver port.CoordinateResolverPort, listingDelay time.Duration) *GeocodeMissingUseCase {
	return &GeocodeMissingUseCase{
		storage:      storage,
		resolver:     resolver,
		listingDelay: listingDelay,
	}
}

// Execute обрабатывает все строки без координат. Промах по отдельной строке
// не считается ошибкой прогона.
func (uc *GeocodeMissingUseCase) Execute(ctx context.Context) (*domain.GeocodeReport, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GeocodeMissing"})

	houses, err := uc.storage.ListWithoutCoordinates(ctx)
	if err != nil {
		ucLogger.Error("Failed to load houses without coordinates", err, nil)
		return nil, fmt.Errorf("geocode missing: failed to load houses: %w", err)
	}

	ucLogger.Info("Found houses without coordinates", port.Fields{"count": len(houses)})

	report := &domain.GeocodeReport{}
	for i, h := range houses {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		report.Processed++

		coords, err := uc.resolver.Resolve(ctx, domain.Listing{
			ID:       h.ID,
			Position: h.Position,
			Link:     h.Link,
		})
		if err != nil {
			ucLogger.Warn("Coordinate resolution failed for house", port.Fields{
				"object_id": h.ID,
				"error":     err.Error(),
			})
		} else if coords != nil {
			gh := geohash.Encode(coords.Lat, coords.Lon)
			if err := uc.storage.UpdateCoordinates(ctx, h.ID, *coords, gh); err != nil {
				ucLogger.Error("Failed to persist resolved coordinates", err, port.Fields{"object_id": h.ID})
			} else {
				report.Resolved++
			}
		}

		if i < len(houses)-1 {
			if err := sleepCtx(ctx, uc.listingDelay); err != nil {
				return report, err
			}
		}
	}

	ucLogger.Info("Geocoding pass finished", port.Fields{
		"processed": report.Processed,
		"resolved":  report.Resolved,
	})
	return report, nil
}
