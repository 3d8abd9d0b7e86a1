package domain

import (
	"testing"

	"github.com/mmcloughlin/geohash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHouseFromListing(t *testing.T) {
	stateDate := "2024-03-15"
	lat, lon := 53.9, 27.56

	house := HouseFromListing(Listing{
		ID:        42,
		Position:  "Минская обл., д. Дубовцы",
		StateType: "Пустующий",
		StateDate: &stateDate,
		Link:      "https://eri2.nca.by/guest/abandonedObject/42",
		Latitude:  &lat,
		Longitude: &lon,
	})

	assert.Equal(t, int64(42), house.ID)
	assert.True(t, house.Actual)
	assert.Equal(t, &stateDate, house.StateDate)
	require.NotNil(t, house.Geohash)
	assert.Equal(t, geohash.Encode(lat, lon), *house.Geohash)
}

func TestHouseFromListing_WithoutCoordinates(t *testing.T) {
	house := HouseFromListing(Listing{ID: 7, Position: "Минская обл."})

	assert.True(t, house.Actual)
	assert.Nil(t, house.Latitude)
	assert.Nil(t, house.Longitude)
	assert.Nil(t, house.Geohash)
}

func TestListingInRegion(t *testing.T) {
	l := Listing{Position: "Минская обл., Минский р-н, д. Дубовцы"}

	assert.True(t, l.InRegion("Минская обл."))
	assert.False(t, l.InRegion("Гомельская обл."))
}
