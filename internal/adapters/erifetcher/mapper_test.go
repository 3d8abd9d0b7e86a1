package erifetcher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMillisToDate(t *testing.T) {
	ms := int64(1700000000000)
	expected := time.UnixMilli(ms).Format("2006-01-02")

	got := millisToDate(json.Number("1700000000000"))

	require.NotNil(t, got)
	assert.Equal(t, expected, *got)
}

func TestMillisToDate_EmptyValue(t *testing.T) {
	assert.Nil(t, millisToDate(json.Number("")))
}

func TestMillisToDate_NonNumericValue(t *testing.T) {
	assert.Nil(t, millisToDate(json.Number("не дата")))
}

func TestBuildObjectLink(t *testing.T) {
	assert.Equal(t, "https://eri2.nca.by/guest/abandonedObject/12345", buildObjectLink(12345))
}

func TestMapRegistryItem(t *testing.T) {
	ms := int64(1700000000000)
	item := registryObjectItem{
		ID:             77,
		Position:       "Минская обл., д. Дубовцы",
		StateType:      "Пустующий",
		StateDate:      json.Number("1700000000000"),
		InspectionDate: json.Number("мусор"),
	}

	l := mapRegistryItem(context.Background(), item)

	assert.Equal(t, int64(77), l.ID)
	assert.Equal(t, "https://eri2.nca.by/guest/abandonedObject/77", l.Link)
	require.NotNil(t, l.StateDate)
	assert.Equal(t, time.UnixMilli(ms).Format("2006-01-02"), *l.StateDate)
	// Нечисловое значение даты не роняет маппинг, а дает nil
	assert.Nil(t, l.InspectionDate)
}
