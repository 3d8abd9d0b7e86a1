package mapextract

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eri-tracker-service/internal/constants"
	"eri-tracker-service/internal/contextkeys"
	"eri-tracker-service/internal/core/domain"
	"eri-tracker-service/internal/core/port"

	"github.com/chromedp/chromedp"
)

// markerScript вычисляет центр маркера относительно контейнера карты и просит
// Leaflet-инстанс страницы перевести пиксельное смещение в координаты.
// Завязан на внутренности vue2-leaflet на карточке объекта; при любом сбое
// возвращает null.
const markerScript = `(() => {
	try {
		const marker = document.querySelector("` + constants.MapMarkerSelector + `");
		const mapEl = document.querySelector("` + constants.MapContainerSelector + `");
		if (!marker || !mapEl) return null;
		const markerRect = marker.getBoundingClientRect();
		const mapRect = mapEl.getBoundingClientRect();
		const centerX = markerRect.left + markerRect.width / 2 - mapRect.left;
		const centerY = markerRect.top + markerRect.height / 2 - mapRect.top;
		const leafletMap = mapEl.__vue__?.mapObject;
		if (!leafletMap) return null;
		const latlng = leafletMap.containerPointToLatLng([centerX, centerY]);
		return { lat: latlng.lat, lon: latlng.lng };
	} catch (e) {
		return null;
	}
})()`

// Resolver извлекает координаты объекта из маркера карты на его странице.
// Каждый вызов поднимает и гасит собственный браузер: объем вызовов ограничен
// размером страницы реестра, а изолированная сессия надежнее переиспользуемой.
type Resolver struct {
	markerTimeout time.Duration
}

func NewResolver(markerTimeout time.Duration) *Resolver {
	if markerTimeout <= 0 {
		markerTimeout = 15 * time.Second
	}
	return &Resolver{markerTimeout: markerTimeout}
}

// Resolve лучших усилий: любой сбой (маркер не появился, инстанс карты
// недоступен, страница не загрузилась) дает (nil, err) и логируется выше,
// но никогда не прерывает конвейер.
func (r *Resolver) Resolve(ctx context.Context, listing domain.Listing) (*domain.Coordinates, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "MapExtractResolver",
		"object_id": listing.ID,
	})

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, r.markerTimeout)
	defer cancelTimeout()

	link := listing.Link + "#address"

	var raw json.RawMessage
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(link),
		chromedp.WaitVisible(constants.MapMarkerSelector, chromedp.ByQuery),
		chromedp.Evaluate(markerScript, &raw),
	)
	if err != nil {
		return nil, fmt.Errorf("map extract: browser automation failed for object %d: %w", listing.ID, err)
	}

	if len(raw) == 0 || string(raw) == "null" {
		logger.Debug("Map marker script returned no result", nil)
		return nil, nil
	}

	var result struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("map extract: failed to parse marker script result: %w", err)
	}

	logger.Debug("Coordinates extracted from map marker", port.Fields{
		"lat": result.Lat,
		"lon": result.Lon,
	})
	return &domain.Coordinates{Lat: result.Lat, Lon: result.Lon}, nil
}
