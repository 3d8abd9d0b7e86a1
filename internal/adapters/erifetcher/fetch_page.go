package erifetcher

import (
	"context"
	"encoding/json"
	"fmt"

	"eri-tracker-service/internal/constants"
	"eri-tracker-service/internal/contextkeys"
	"eri-tracker-service/internal/core/domain"
	"eri-tracker-service/internal/core/port"

	"github.com/gocolly/colly/v2"
)

// searchRequest - фиксированная форма поискового запроса реестра.
// Меняется только номер страницы.
type searchRequest struct {
	PageSize              int  `json:"pageSize"`
	PageNumber            int  `json:"pageNumber"`
	SortBy                int  `json:"sortBy"`
	SortDesc              bool `json:"sortDesc"`
	Destroyed             bool `json:"destroyed"`
	Emergency             bool `json:"emergency"`
	OneBasePrice          bool `json:"oneBasePrice"`
	StateSearchCategoryID int  `json:"stateSearchCategoryId"`
}

type searchResponse struct {
	Data struct {
		Content []registryObjectItem `json:"content"`
	} `json:"data"`
}

type registryObjectItem struct {
	ID        int64  `json:"id"`
	Position  string `json:"position"`
	StateType string `json:"abandonedObjectStateType"`

	// json.Number, а не int64: реестр изредка отдает мусор вместо
	// миллисекунд, и это не должно ронять разбор всей страницы
	StateDate      json.Number `json:"abandonedObjectStateDate"`
	InspectionDate json.Number `json:"inspectionDate"`
}

// FetchPage запрашивает одну страницу поиска. Пустой результат без ошибки
// означает конец данных.
func (a *RegistryFetcherAdapter) FetchPage(ctx context.Context, pageNumber int) ([]domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	pageLogger := logger.WithFields(port.Fields{
		"component": "RegistryFetcherAdapter(FetchPage)",
		"page":      pageNumber,
	})

	payload, err := json.Marshal(searchRequest{
		PageSize:              constants.PageSize,
		PageNumber:            pageNumber,
		SortBy:                constants.SortByStateDate,
		SortDesc:              true,
		Destroyed:             false,
		Emergency:             false,
		OneBasePrice:          true,
		StateSearchCategoryID: constants.StateSearchCategoryID,
	})
	if err != nil {
		return nil, fmt.Errorf("eri fetcher: failed to marshal search request: %w", err)
	}

	// Одноразовый клон: наследует лимиты, но имеет свои обработчики
	collector := a.collector.Clone()

	var listings []domain.Listing
	var responseErr error

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Content-Type", "application/json")
		r.Headers.Set("Accept", "application/json")
		pageLogger.Debug("Requesting search page", port.Fields{"url": r.URL.String()})
	})

	collector.OnResponse(func(r *colly.Response) {
		var data searchResponse
		if jsonErr := json.Unmarshal(r.Body, &data); jsonErr != nil {
			responseErr = fmt.Errorf("eri fetcher: failed to parse search response for page %d: %w", pageNumber, jsonErr)
			return
		}

		for _, item := range data.Data.Content {
			listings = append(listings, mapRegistryItem(ctx, item))
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		responseErr = fmt.Errorf("eri fetcher: request for page %d failed with status %d: %w", pageNumber, r.StatusCode, err)
	})

	if visitErr := collector.PostRaw(a.searchURL, payload); visitErr != nil {
		return nil, fmt.Errorf("eri fetcher: failed to post search request for page %d: %w", pageNumber, visitErr)
	}
	collector.Wait()

	if responseErr != nil {
		return nil, responseErr
	}

	pageLogger.Debug("Search page fetched", port.Fields{"listings": len(listings)})
	return listings, nil
}
