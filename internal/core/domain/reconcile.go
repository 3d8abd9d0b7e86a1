package domain

// StaleIDs возвращает идентификаторы, которые есть в хранилище, но
// отсутствуют во входящем наборе. Именно эти строки подлежат удалению.
func StaleIDs(persisted []int64, incoming []Listing) []int64 {
	incomingSet := make(map[int64]struct{}, len(incoming))
	for _, l := range incoming {
		incomingSet[l.ID] = struct{}{}
	}

	var stale []int64
	for _, id := range persisted {
		if _, ok := incomingSet[id]; !ok {
			stale = append(stale, id)
		}
	}
	return stale
}

// StaleHouseIDs - вариант StaleIDs для уже смапленных строк House.
func StaleHouseIDs(persisted []int64, incoming []House) []int64 {
	listings := make([]Listing, len(incoming))
	for i, h := range incoming {
		listings[i] = Listing{ID: h.ID}
	}
	return StaleIDs(persisted, listings)
}

// DedupeListings схлопывает повторы одного идентификатора внутри прогона:
// побеждает более поздняя запись, порядок первого появления сохраняется.
func DedupeListings(listings []Listing) []Listing {
	index := make(map[int64]int, len(listings))
	deduped := make([]Listing, 0, len(listings))

	for _, l := range listings {
		if i, seen := index[l.ID]; seen {
			deduped[i] = l
			continue
		}
		index[l.ID] = len(deduped)
		deduped = append(deduped, l)
	}
	return deduped
}

// FilterByRegion оставляет только объекты целевого региона.
func FilterByRegion(listings []Listing, region string) []Listing {
	var matched []Listing
	for _, l := range listings {
		if l.InRegion(region) {
			matched = append(matched, l)
		}
	}
	return matched
}

// ReconcileReport - итог одной транзакции сверки.
type ReconcileReport struct {
	Added   int
	Updated int
	Deleted int

	// Строки, вставленные впервые; по ним рассылаются уведомления
	Inserted []House
}

// RefreshReport - итог полного прогона конвейера по региону.
type RefreshReport struct {
	Region  string
	Fetched int // всего получено со всех страниц
	Matched int // осталось после фильтра по региону и дедупликации

	// Aborted выставляется, когда входящий набор оказался пустым и сверка
	// не запускалась. Отличим от прогона без изменений.
	Aborted bool

	Added   int
	Updated int
	Deleted int
}

// GeocodeReport - итог фонового догеокодирования строк без координат.
type GeocodeReport struct {
	Processed int
	Resolved  int
}
