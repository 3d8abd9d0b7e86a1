package usecase

import (
	"context"
	"fmt"

	"eri-tracker-service/internal/contextkeys"
	"eri-tracker-service/internal/core/domain"
	"eri-tracker-service/internal/core/port"

	"github.com/google/uuid"
)

// ReconcileHousesUseCase приводит хранимое множество строк региона к
// входящему набору и рассылает уведомления о впервые появившихся объектах.
// Это единственный писатель таблицы houses.
type ReconcileHousesUseCase struct {
	storage  port.HouseStoragePort
	notifier port.NewHouseNotifierPort
}

// NewReconcileHousesUseCase создает новый экземпляр use case.
func NewReconcileHousesUseCase(storage port.HouseStoragePort, notifier port.NewHouseNotifierPort) *ReconcileHousesUseCase {
	return &ReconcileHousesUseCase{
		storage:  storage,
		notifier: notifier,
	}
}

// Execute выполняет сверку. Пустой входящий набор - это отказ с
// domain.ErrNoIncomingData еще до обращения к хранилищу: транзитный сбой
// выборки не должен читаться как "все объекты исчезли".
func (uc *ReconcileHousesUseCase) Execute(ctx context.Context, region string, listings []domain.Listing, runID uuid.UUID) (*domain.ReconcileReport, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ReconcileHouses",
		"region":   region,
		"incoming": len(listings),
	})

	if len(listings) == 0 {
		ucLogger.Warn("Incoming set is empty, skipping reconciliation entirely", nil)
		return nil, domain.ErrNoIncomingData
	}

	houses := make([]domain.House, len(listings))
	for i, l := range listings {
		houses[i] = domain.HouseFromListing(l)
	}

	report, err := uc.storage.ReplaceRegion(ctx, region, houses)
	if err != nil {
		ucLogger.Error("Storage returned an error during reconciliation", err, nil)
		return nil, fmt.Errorf("failed to reconcile %d listings for region %q: %w", len(listings), region, err)
	}

	// Уведомления идут после коммита и не влияют на его судьбу:
	// сбой доставки логируется и не откатывает вставку
	for _, inserted := range report.Inserted {
		if err := uc.notifier.NotifyNewHouse(ctx, inserted, runID); err != nil {
			ucLogger.Error("Failed to notify about new house", err, port.Fields{"object_id": inserted.ID})
		}
	}

	ucLogger.Info("Reconciliation finished", port.Fields{
		"added":   report.Added,
		"updated": report.Updated,
		"deleted": report.Deleted,
	})
	return report, nil
}
