package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/vidora/vidora/internal/store"
)

func (c *Client) documentsPath(collection string) string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents",
		url.PathEscape(c.databaseID), url.PathEscape(collection))
}

func (c *Client) ListDocuments(ctx context.Context, collection string, q store.Query) ([]store.Document, error) {
	if collection == "" {
		return nil, store.ErrInvalidArgument
	}

	path := c.documentsPath(collection)
	if params := encodeQuery(q); params != "" {
		path += "?" + params
	}

	var resp listDocumentsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	docs := make([]store.Document, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		docs = append(docs, d.toDocument())
	}
	return docs, nil
}

func (c *Client) CreateDocument(ctx context.Context, collection string, fields map[string]any) (store.Document, error) {
	if collection == "" {
		return store.Document{}, store.ErrInvalidArgument
	}

	req := struct {
		Fields map[string]any `json:"fields"`
	}{Fields: fields}

	var dto documentDTO
	if err := c.doJSON(ctx, http.MethodPost, c.documentsPath(collection), req, &dto); err != nil {
		return store.Document{}, err
	}
	return dto.toDocument(), nil
}

// encodeQuery flattens a Query into URL parameters. Map keys are sorted so
// the encoding is deterministic.
func encodeQuery(q store.Query) string {
	params := url.Values{}
	for _, k := range sortedKeys(q.Equal) {
		params.Add("equal", k+":"+q.Equal[k])
	}
	for _, k := range sortedKeys(q.Search) {
		params.Add("search", k+":"+q.Search[k])
	}
	if q.OrderDescBy != "" {
		params.Set("orderDesc", q.OrderDescBy)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	return params.Encode()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
