package port

import (
	"context"

	"eri-tracker-service/internal/core/domain"

	"github.com/google/uuid"
)

// NewHouseNotifierPort - канал уведомлений о новых объектах.
// Семантика fire-and-forget: сбой доставки логируется, но не откатывает
// вставку, которая его породила.
type NewHouseNotifierPort interface {
	NotifyNewHouse(ctx context.Context, house domain.House, runID uuid.UUID) error
}
