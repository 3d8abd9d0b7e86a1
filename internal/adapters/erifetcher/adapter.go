package erifetcher

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

// RegistryFetcherAdapter отвечает за все взаимодействия с поисковым API
// единого реестра (eri2.nca.by)
type RegistryFetcherAdapter struct {
	// родительский коллектор, который разделяет лимиты
	collector *colly.Collector
	searchURL string
}

// NewRegistryFetcherAdapter - конструктор
func NewRegistryFetcherAdapter(searchURL string, pageDelay time.Duration) (*RegistryFetcherAdapter, error) {
	u, err := url.Parse(searchURL)
	if err != nil {
		return nil, fmt.Errorf("RegistryFetcherAdapter: invalid search URL: %w", err)
	}

	// родительский коллектор
	c := colly.NewCollector(colly.AllowedDomains(u.Hostname()), colly.AllowURLRevisit())

	// Правила наследуются всеми клонами коллектора: один запрос за раз,
	// фиксированная пауза между страницами (пейсинг, а не ретраи)
	err = c.Limit(&colly.LimitRule{
		DomainGlob:  u.Hostname(),
		Parallelism: 1,
		Delay:       pageDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("RegistryFetcherAdapter: failed to set limit rule: %w", err)
	}

	extensions.RandomUserAgent(c)

	return &RegistryFetcherAdapter{
		collector: c,
		searchURL: searchURL,
	}, nil
}
