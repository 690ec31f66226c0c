package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func TestSearchDecodesHits(t *testing.T) {
	var gotBody map[string]interface{}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"hits": {
				"total": {"value": 2},
				"hits": [
					{"_source": {"id": 1, "name": "Tomatoes", "picture": "t.png", "quantity": 40, "pricePerKg": 25}},
					{"_source": {"id": 2, "name": "Cherry Tomatoes", "picture": "c.png", "quantity": 10, "pricePerKg": 60}}
				]
			}
		}`))
	})

	total, products, err := Search(context.Background(), client, "product", "tomato", 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, products, 2)

	require.Equal(t, uint(1), products[0].ID)
	require.Equal(t, "Tomatoes", products[0].Name)
	require.Equal(t, "t.png", products[0].Picture)
	require.Equal(t, uint(40), products[0].Quantity)
	require.Equal(t, 25.0, products[0].PricePerKg)
	require.Equal(t, "Cherry Tomatoes", products[1].Name)

	query := gotBody["query"].(map[string]interface{})["multi_match"].(map[string]interface{})
	require.Equal(t, "tomato", query["query"])
	require.Equal(t, "AUTO", query["fuzziness"])
}

func TestSearchEmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hits": {"total": {"value": 0}, "hits": []}}`))
	})

	total, products, err := Search(context.Background(), client, "product", "durian", 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(0), total)
	require.Empty(t, products)
}

func TestSearchErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"type": "parsing_exception"}}`))
	})

	_, _, err := Search(context.Background(), client, "product", "tomato", 0, 10)
	require.Error(t, err)
}
