package excel

import (
	"context"
	"strings"
	"testing"

	"eri-tracker-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExport(t *testing.T) {
	stateDate := "2024-03-15"
	lat, lon := 53.9006, 27.5590

	houses := []domain.House{
		{
			ID:        101,
			Position:  "Минская обл., д. Дубовцы",
			StateType: "Пустующий",
			StateDate: &stateDate,
			Link:      "https://eri2.nca.by/guest/abandonedObject/101",
			Latitude:  &lat,
			Longitude: &lon,
		},
		{
			ID:        102,
			Position:  "Минская обл., аг. Снов",
			StateType: "Пустующий",
			Link:      "https://eri2.nca.by/guest/abandonedObject/102",
		},
	}

	exporter := NewExporter(t.TempDir())
	filePath, err := exporter.Export(context.Background(), houses)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filePath, ".xlsx"))

	f, err := excelize.OpenFile(filePath)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Адрес", rows[0][1])

	assert.Equal(t, "101", rows[1][0])
	assert.Equal(t, "Минская обл., д. Дубовцы", rows[1][1])
	assert.Equal(t, "2024-03-15", rows[1][3])

	// Отсутствующие даты и координаты остаются пустыми ячейками
	assert.Equal(t, "102", rows[2][0])
	assert.Equal(t, "", rows[2][3])
}

func TestExport_EmptySet(t *testing.T) {
	exporter := NewExporter(t.TempDir())

	filePath, err := exporter.Export(context.Background(), nil)
	require.NoError(t, err)

	f, err := excelize.OpenFile(filePath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	// Остается только строка заголовков
	assert.Len(t, rows, 1)
}
