package erifetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eri-tracker-service/internal/constants"
	"eri-tracker-service/internal/contextkeys"
	"eri-tracker-service/internal/core/domain"
	"eri-tracker-service/internal/core/port"
)

// mapRegistryItem переводит сырую запись API в доменную: строит ссылку на
// карточку объекта и нормализует даты.
func mapRegistryItem(ctx context.Context, item registryObjectItem) domain.Listing {
	logger := contextkeys.LoggerFromContext(ctx)

	l := domain.Listing{
		ID:        item.ID,
		Position:  item.Position,
		StateType: item.StateType,
		Link:      buildObjectLink(item.ID),
	}

	l.StateDate = millisToDate(item.StateDate)
	if l.StateDate == nil && item.StateDate != "" {
		logger.Warn("Failed to normalize state date", port.Fields{
			"object_id": item.ID,
			"raw_value": item.StateDate.String(),
		})
	}

	l.InspectionDate = millisToDate(item.InspectionDate)
	if l.InspectionDate == nil && item.InspectionDate != "" {
		logger.Warn("Failed to normalize inspection date", port.Fields{
			"object_id": item.ID,
			"raw_value": item.InspectionDate.String(),
		})
	}

	return l
}

// millisToDate переводит метку времени в миллисекундах в календарную дату
// "2006-01-02" в локальной зоне. Пустое или нечисловое значение дает nil.
func millisToDate(raw json.Number) *string {
	if raw == "" {
		return nil
	}
	ms, err := raw.Int64()
	if err != nil {
		return nil
	}
	date := time.UnixMilli(ms).Format("2006-01-02")
	return &date
}

// buildObjectLink строит каноническую ссылку на карточку объекта.
// Используется и для отображения, и как стабильный внешний идентификатор.
func buildObjectLink(id int64) string {
	return fmt.Sprintf(constants.ObjectLinkTemplate, id)
}
