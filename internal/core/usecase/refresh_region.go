package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"eri-tracker-service/internal/contextkeys"
	"eri-tracker-service/internal/core/domain"
	"eri-tracker-service/internal/core/port"

	"github.com/google/uuid"
)

// RefreshRegionUseCase - оркестратор конвейера: постраничная выборка,
// фильтр по региону, дедупликация, определение координат и сверка.
type RefreshRegionUseCase struct {
	fetcher    port.RegistryFetcherPort
	resolver   port.CoordinateResolverPort // nil - координаты не определяются
	reconciler *ReconcileHousesUseCase

	pageDelay    time.Duration
	listingDelay time.Duration

	// Прогоны по одному региону не скоординированы на уровне транзакции,
	// поэтому сериализуются здесь
	mu          sync.Mutex
	regionLocks map[string]*sync.Mutex
}

// NewRefreshRegionUseCase создает новый экземпляр оркестратора.
func NewRefreshRegionUseCase(
	fetcher port.RegistryFetcherPort,
	resolver port.CoordinateResolverPort,
	reconciler *ReconcileHousesUseCase,
	pageDelay time.Duration,
	listingDelay time.Duration,
) *RefreshRegionUseCase {
	return &RefreshRegionUseCase{
		fetcher:      fetcher,
		resolver:     resolver,
		reconciler:   reconciler,
		pageDelay:    pageDelay,
		listingDelay: listingDelay,
		regionLocks:  make(map[string]*sync.Mutex),
	}
}

func (uc *RefreshRegionUseCase) lockRegion(region string) *sync.Mutex {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	lock, ok := uc.regionLocks[region]
	if !ok {
		lock = &sync.Mutex{}
		uc.regionLocks[region] = lock
	}
	return lock
}

// Execute выполняет полный прогон по региону и возвращает итоговый отчет.
// Пустой входящий набор дает отчет с Aborted=true и нетронутым хранилищем.
func (uc *RefreshRegionUseCase) Execute(ctx context.Context, region string) (*domain.RefreshReport, error) {
	runID := uuid.New()

	baseLogger := contextkeys.LoggerFromContext(ctx)
	ucLogger := baseLogger.WithFields(port.Fields{
		"use_case": "RefreshRegion",
		"region":   region,
		"run_id":   runID.String(),
	})
	ctx = contextkeys.ContextWithLogger(ctx, baseLogger.WithFields(port.Fields{"run_id": runID.String()}))

	lock := uc.lockRegion(region)
	lock.Lock()
	defer lock.Unlock()

	ucLogger.Info("Starting registry refresh", nil)

	fetched, err := uc.fetchAllPages(ctx, ucLogger)
	if err != nil {
		return nil, err
	}

	report := &domain.RefreshReport{
		Region:  region,
		Fetched: len(fetched),
	}

	matched := domain.FilterByRegion(domain.DedupeListings(fetched), region)
	report.Matched = len(matched)

	if len(matched) == 0 {
		// Защита от массового удаления по ложному "ничего нет"
		ucLogger.Warn("Run yielded no listings, aborting before reconciliation", port.Fields{
			"fetched_total": len(fetched),
		})
		report.Aborted = true
		return report, nil
	}

	uc.resolveCoordinates(ctx, ucLogger, matched)

	reconcileReport, err := uc.reconciler.Execute(ctx, region, matched, runID)
	if err != nil {
		if errors.Is(err, domain.ErrNoIncomingData) {
			report.Aborted = true
			return report, nil
		}
		return nil, fmt.Errorf("refresh region %q: %w", region, err)
	}

	report.Added = reconcileReport.Added
	report.Updated = reconcileReport.Updated
	report.Deleted = reconcileReport.Deleted

	ucLogger.Info("Registry refresh finished", port.Fields{
		"fetched": report.Fetched,
		"matched": report.Matched,
		"added":   report.Added,
		"updated": report.Updated,
		"deleted": report.Deleted,
	})
	return report, nil
}

// fetchAllPages читает страницы поиска с нулевой до первой пустой.
// Ошибка страницы трактуется как конец данных: прогон обрезается, что
// осознанное упрощение - транзитный сбой на странице N молча отсекает хвост.
func (uc *RefreshRegionUseCase) fetchAllPages(ctx context.Context, logger port.LoggerPort) ([]domain.Listing, error) {
	var all []domain.Listing

	for pageNumber := 0; ; pageNumber++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		listings, err := uc.fetcher.FetchPage(ctx, pageNumber)
		if err != nil {
			logger.Warn("Page fetch failed, treating as end of pagination", port.Fields{
				"page":  pageNumber,
				"error": err.Error(),
			})
			break
		}
		if len(listings) == 0 {
			logger.Debug("Empty page reached, pagination finished", port.Fields{"page": pageNumber})
			break
		}

		all = append(all, listings...)
		logger.Debug("Page processed", port.Fields{
			"page":     pageNumber,
			"listings": len(listings),
		})

		if err := sleepCtx(ctx, uc.pageDelay); err != nil {
			return nil, err
		}
	}

	return all, nil
}

// resolveCoordinates обогащает объекты координатами в режиме лучших усилий:
// промах или сбой стратегии оставляет координаты пустыми и не прерывает
// прогон.
func (uc *RefreshRegionUseCase) resolveCoordinates(ctx context.Context, logger port.LoggerPort, listings []domain.Listing) {
	if uc.resolver == nil {
		return
	}

	for i := range listings {
		select {
		case <-ctx.Done():
			return
		default:
		}

		coords, err := uc.resolver.Resolve(ctx, listings[i])
		switch {
		case err != nil:
			logger.Warn("Coordinate resolution failed, keeping empty coordinates", port.Fields{
				"object_id": listings[i].ID,
				"error":     err.Error(),
			})
		case coords == nil:
			logger.Warn("Coordinates not found for object", port.Fields{"object_id": listings[i].ID})
		default:
			listings[i].Latitude = &coords.Lat
			listings[i].Longitude = &coords.Lon
		}

		if i < len(listings)-1 {
			if err := sleepCtx(ctx, uc.listingDelay); err != nil {
				return
			}
		}
	}
}

// sleepCtx - пейсинговая пауза, прерываемая отменой контекста.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
