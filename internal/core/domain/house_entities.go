package domain

import (
	"errors"
	"strings"

	"github.com/mmcloughlin/geohash"
)

// ErrNoIncomingData возвращается, когда за весь прогон не получено ни одной
// записи. Сверка при этом пропускается целиком: пустой входящий набор чаще
// означает сбой источника, чем реальное отсутствие объектов, и массовое
// удаление по нему недопустимо.
var ErrNoIncomingData = errors.New("no incoming listings, reconciliation skipped")

// Listing - один объект из реестра в том виде, в котором его отдает поисковый
// API (плюс производные поля). Живет только в рамках одного прогона.
type Listing struct {
	ID        int64
	Position  string // свободный текст адреса из реестра
	StateType string

	// Нормализованные даты в формате "2006-01-02"; nil, если исходное
	// значение отсутствовало или не разобралось
	StateDate      *string
	InspectionDate *string

	Link string

	Latitude  *float64
	Longitude *float64
}

// InRegion проверяет принадлежность объекта региону. Это строгий поиск
// подстроки: строка региона должна совпадать с форматированием самого реестра
// (например, "Минская обл.").
func (l Listing) InRegion(region string) bool {
	return strings.Contains(l.Position, region)
}

// House - хранимая строка таблицы houses. Единственный, кто ее пишет, -
// процесс сверки; остальные слои только читают.
type House struct {
	ID             int64
	Position       string
	StateType      string
	StateDate      *string
	InspectionDate *string
	Link           string
	Actual         bool
	Latitude       *float64
	Longitude      *float64
	Geohash        *string
}

// HouseFromListing переносит все поля Listing в хранимую форму.
// Geohash выводится из координат, когда они есть.
func HouseFromListing(l Listing) House {
	h := House{
		ID:             l.ID,
		Position:       l.Position,
		StateType:      l.StateType,
		StateDate:      l.StateDate,
		InspectionDate: l.InspectionDate,
		Link:           l.Link,
		Actual:         true,
		Latitude:       l.Latitude,
		Longitude:      l.Longitude,
	}
	if l.Latitude != nil && l.Longitude != nil {
		gh := geohash.Encode(*l.Latitude, *l.Longitude)
		h.Geohash = &gh
	}
	return h
}

// Coordinates - пара широта/долгота, результат работы любой стратегии
// определения координат.
type Coordinates struct {
	Lat float64
	Lon float64
}
