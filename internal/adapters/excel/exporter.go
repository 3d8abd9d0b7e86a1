package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"eri-tracker-service/internal/contextkeys"
	"eri-tracker-service/internal/core/domain"
	"eri-tracker-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Exporter выгружает строки houses в .xlsx файл во временной директории.
type Exporter struct {
	dir string
}

// NewExporter создает экспортер. Пустая dir означает системную временную
// директорию.
func NewExporter(dir string) *Exporter {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Exporter{dir: dir}
}

var headerRow = []interface{}{
	"ID", "Адрес", "Состояние", "Дата состояния", "Дата осмотра", "Ссылка", "Широта", "Долгота",
}

// Export пишет все строки в новый файл и возвращает путь к нему.
// Удаление файла после отдачи - забота вызывающей стороны.
func (e *Exporter) Export(ctx context.Context, houses []domain.House) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "ExcelExporter",
	})

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return "", fmt.Errorf("excel export: failed to write header row: %w", err)
	}

	for i, h := range houses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", fmt.Errorf("excel export: failed to build cell name: %w", err)
		}
		row := []interface{}{
			h.ID,
			h.Position,
			h.StateType,
			derefOrEmpty(h.StateDate),
			derefOrEmpty(h.InspectionDate),
			h.Link,
			derefFloat(h.Latitude),
			derefFloat(h.Longitude),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", fmt.Errorf("excel export: failed to write row %d: %w", i+2, err)
		}
	}

	fileName := filepath.Join(e.dir, fmt.Sprintf("houses_%s.xlsx", uuid.New().String()))
	if err := f.SaveAs(fileName); err != nil {
		return "", fmt.Errorf("excel export: failed to save file: %w", err)
	}

	logger.Info("Exported houses to excel file", port.Fields{
		"file":  fileName,
		"count": len(houses),
	})
	return fileName, nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) interface{} {
	if f == nil {
		return ""
	}
	return *f
}
