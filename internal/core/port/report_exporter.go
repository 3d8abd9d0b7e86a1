package port

import (
	"context"

	"eri-tracker-service/internal/core/domain"
)

// ReportExporterPort выгружает строки houses в табличный файл и возвращает
// путь к нему. Формат файла - забота адаптера.
type ReportExporterPort interface {
	Export(ctx context.Context, houses []domain.House) (string, error)
}
