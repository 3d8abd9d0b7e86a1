package usecase

import (
	"context"
	"fmt"

	"eri-tracker-service/internal/contextkeys"
	"eri-tracker-service/internal/core/port"
)

// ExportHousesUseCase собирает все сохраненные строки и отдает их экспортеру.
type ExportHousesUseCase struct {
	storage  port.HouseStoragePort
	exporter port.ReportExporterPort
}

func NewExportHousesUseCase(storage port.HouseStoragePort, exporter port.ReportExporterPort) *ExportHousesUseCase {
	return &ExportHousesUseCase{
		storage:  storage,
		exporter: exporter,
	}
}

// Execute возвращает путь к готовому файлу отчета.
func (uc *ExportHousesUseCase) Execute(ctx context.Context) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "ExportHouses"})

	houses, err := uc.storage.ListAll(ctx)
	if err != nil {
		ucLogger.Error("Failed to load houses for export", err, nil)
		return "", fmt.Errorf("export houses: failed to load houses: %w", err)
	}

	filePath, err := uc.exporter.Export(ctx, houses)
	if err != nil {
		ucLogger.Error("Exporter returned an error", err, nil)
		return "", fmt.Errorf("export houses: %w", err)
	}

	return filePath, nil
}
