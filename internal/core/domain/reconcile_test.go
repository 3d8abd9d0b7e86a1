package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaleIDs(t *testing.T) {
	incoming := []Listing{{ID: 2}, {ID: 3}, {ID: 4}}

	stale := StaleIDs([]int64{1, 2, 3}, incoming)

	assert.Equal(t, []int64{1}, stale)
}

func TestStaleIDs_NothingStale(t *testing.T) {
	incoming := []Listing{{ID: 1}, {ID: 2}}

	stale := StaleIDs([]int64{1, 2}, incoming)

	assert.Empty(t, stale)
}

func TestStaleIDs_EmptyPersisted(t *testing.T) {
	stale := StaleIDs(nil, []Listing{{ID: 1}})

	assert.Empty(t, stale)
}

func TestStaleHouseIDs(t *testing.T) {
	incoming := []House{{ID: 10}, {ID: 30}}

	stale := StaleHouseIDs([]int64{10, 20, 30}, incoming)

	assert.Equal(t, []int64{20}, stale)
}

func TestDedupeListings_LaterEntryWins(t *testing.T) {
	listings := []Listing{
		{ID: 1, Position: "старая запись"},
		{ID: 2, Position: "вторая"},
		{ID: 1, Position: "новая запись"},
	}

	deduped := DedupeListings(listings)

	assert.Len(t, deduped, 2)
	assert.Equal(t, int64(1), deduped[0].ID)
	assert.Equal(t, "новая запись", deduped[0].Position)
	assert.Equal(t, int64(2), deduped[1].ID)
}

func TestDedupeListings_NoDuplicates(t *testing.T) {
	listings := []Listing{{ID: 1}, {ID: 2}, {ID: 3}}

	deduped := DedupeListings(listings)

	assert.Equal(t, listings, deduped)
}

func TestFilterByRegion(t *testing.T) {
	listings := []Listing{
		{ID: 1, Position: "Минская обл., Минский р-н, д. Дубовцы"},
		{ID: 2, Position: "Гомельская обл., г. Гомель"},
		{ID: 3, Position: "аг. Снов, Минская обл."},
	}

	matched := FilterByRegion(listings, "Минская обл.")

	assert.Len(t, matched, 2)
	assert.Equal(t, int64(1), matched[0].ID)
	assert.Equal(t, int64(3), matched[1].ID)
}

func TestFilterByRegion_SubstringIsStrict(t *testing.T) {
	listings := []Listing{{ID: 1, Position: "Минская область, Минский р-н"}}

	// "Минская обл." не является подстрокой "Минская область"
	assert.Empty(t, FilterByRegion(listings, "Минская обл."))
}
