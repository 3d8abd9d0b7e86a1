package erifetcher

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPage(t *testing.T) {
	var gotPayload searchRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotPayload))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"content":[
			{"id":101,"position":"Минская обл., д. Дубовцы","abandonedObjectStateType":"Пустующий","abandonedObjectStateDate":1700000000000,"inspectionDate":null},
			{"id":102,"position":"Минская обл., аг. Снов","abandonedObjectStateType":"Пустующий"}
		]}}`)
	}))
	defer server.Close()

	adapter, err := NewRegistryFetcherAdapter(server.URL+"/api/guest/abandonedObject/search", 0)
	require.NoError(t, err)

	listings, err := adapter.FetchPage(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, int64(101), listings[0].ID)
	assert.NotNil(t, listings[0].StateDate)
	assert.Equal(t, "https://eri2.nca.by/guest/abandonedObject/101", listings[0].Link)
	assert.Nil(t, listings[1].StateDate)

	// Форма запроса фиксированная, меняется только номер страницы
	assert.Equal(t, 3, gotPayload.PageNumber)
	assert.Equal(t, 20, gotPayload.PageSize)
	assert.Equal(t, 1, gotPayload.SortBy)
	assert.True(t, gotPayload.SortDesc)
	assert.False(t, gotPayload.Destroyed)
	assert.False(t, gotPayload.Emergency)
	assert.True(t, gotPayload.OneBasePrice)
	assert.Equal(t, 2, gotPayload.StateSearchCategoryID)
}

func TestFetchPage_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"content":[]}}`)
	}))
	defer server.Close()

	adapter, err := NewRegistryFetcherAdapter(server.URL+"/search", 0)
	require.NoError(t, err)

	listings, err := adapter.FetchPage(context.Background(), 0)

	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestFetchPage_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	adapter, err := NewRegistryFetcherAdapter(server.URL+"/search", 0)
	require.NoError(t, err)

	_, err = adapter.FetchPage(context.Background(), 0)

	assert.Error(t, err)
}

func TestFetchPage_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `не json`)
	}))
	defer server.Close()

	adapter, err := NewRegistryFetcherAdapter(server.URL+"/search", 0)
	require.NoError(t, err)

	_, err = adapter.FetchPage(context.Background(), 0)

	assert.ErrorContains(t, err, "failed to parse search response")
}
