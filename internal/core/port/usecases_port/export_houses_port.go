package usecases_port

import "context"

// ExportHousesUseCase собирает все строки и отдает путь к файлу отчета.
type ExportHousesUseCase interface {
	Execute(ctx context.Context) (string, error)
}
