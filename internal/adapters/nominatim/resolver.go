package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"eri-tracker-service/internal/contextkeys"
	"eri-tracker-service/internal/core/domain"
	"eri-tracker-service/internal/core/port"

	"github.com/gocolly/colly/v2"
)

// Config - параметры обращения к геокодеру
type Config struct {
	BaseURL   string
	UserAgent string
	// Регион и страна, подставляемые в упрощенные варианты адреса
	Region  string
	Country string
	// Ограничение поиска по коду страны ("by")
	CountryCodes string
	// Пауза между запросами вариантов - политика Nominatim
	CandidateDelay time.Duration
}

// Resolver геокодирует свободный текст адреса через Nominatim, перебирая
// варианты адреса от точного к грубому до первого непустого ответа.
type Resolver struct {
	collector *colly.Collector
	cfg       Config
}

func NewResolver(cfg Config) (*Resolver, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("nominatim resolver: invalid base URL: %w", err)
	}

	c := colly.NewCollector(
		colly.AllowedDomains(u.Hostname()),
		colly.AllowURLRevisit(),
		colly.UserAgent(cfg.UserAgent),
	)

	err = c.Limit(&colly.LimitRule{
		DomainGlob:  u.Hostname(),
		Parallelism: 1,
		Delay:       cfg.CandidateDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("nominatim resolver: failed to set limit rule: %w", err)
	}

	return &Resolver{collector: c, cfg: cfg}, nil
}

// nominatimResult - первый элемент ответа; lat/lon приходят строками
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve перебирает варианты адреса по порядку и останавливается на первом,
// который геокодер смог разрешить. Ошибка по отдельному варианту - это
// "нет результата", а не отказ: цикл идет дальше. Если не сработал ни один
// вариант, возвращается (nil, nil).
func (r *Resolver) Resolve(ctx context.Context, listing domain.Listing) (*domain.Coordinates, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "NominatimResolver",
		"object_id": listing.ID,
	})

	for _, candidate := range AddressVariants(listing.Position, r.cfg.Region, r.cfg.Country) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		coords, err := r.geocodeOnce(candidate)
		if err != nil {
			logger.Warn("Geocoding candidate failed", port.Fields{
				"candidate": candidate,
				"error":     err.Error(),
			})
			continue
		}
		if coords != nil {
			logger.Debug("Address resolved", port.Fields{
				"candidate": candidate,
				"lat":       coords.Lat,
				"lon":       coords.Lon,
			})
			return coords, nil
		}
		logger.Debug("No geocoding result for candidate", port.Fields{"candidate": candidate})
	}

	return nil, nil
}

// geocodeOnce выполняет один запрос к геокодеру: только первый результат,
// только целевая страна.
func (r *Resolver) geocodeOnce(query string) (*domain.Coordinates, error) {
	target, err := url.Parse(r.cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	q := target.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")
	if r.cfg.CountryCodes != "" {
		q.Set("countrycodes", r.cfg.CountryCodes)
	}
	target.RawQuery = q.Encode()

	collector := r.collector.Clone()

	var coords *domain.Coordinates
	var responseErr error

	collector.OnResponse(func(resp *colly.Response) {
		var results []nominatimResult
		if jsonErr := json.Unmarshal(resp.Body, &results); jsonErr != nil {
			responseErr = fmt.Errorf("failed to parse geocoder response: %w", jsonErr)
			return
		}
		if len(results) == 0 {
			return
		}

		lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
		lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
		if latErr != nil || lonErr != nil {
			responseErr = fmt.Errorf("geocoder returned malformed coordinates: lat=%q lon=%q", results[0].Lat, results[0].Lon)
			return
		}
		coords = &domain.Coordinates{Lat: lat, Lon: lon}
	})

	collector.OnError(func(resp *colly.Response, err error) {
		responseErr = fmt.Errorf("geocoder request failed with status %d: %w", resp.StatusCode, err)
	})

	if visitErr := collector.Visit(target.String()); visitErr != nil {
		return nil, fmt.Errorf("failed to visit geocoder: %w", visitErr)
	}
	collector.Wait()

	if responseErr != nil {
		return nil, responseErr
	}
	return coords, nil
}
