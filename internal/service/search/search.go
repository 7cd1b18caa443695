package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
)

// RegistrationDoc is the flattened view of any registrable entity
// indexed for the organizer's cross-country search.
type RegistrationDoc struct {
	EntityType   string `json:"entity_type"`
	EntityID     uint   `json:"entity_id"`
	Name         string `json:"name"`
	Country      string `json:"country"`
	TournamentID uint   `json:"tournament_id"`
	Status       string `json:"status"`
	Category     string `json:"category"`
}

func docID(d RegistrationDoc) string {
	return fmt.Sprintf("%s-%d", strings.ToLower(d.EntityType), d.EntityID)
}

// Index upserts one registration document. Callers treat failures as
// best-effort: log and move on, registration itself already happened.
func Index(ctx context.Context, es *elasticsearch.Client, index string, doc RegistrationDoc) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := es.Index(
		index,
		bytes.NewReader(data),
		es.Index.WithContext(ctx),
		es.Index.WithDocumentID(docID(doc)),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index registration: %s", res.Status())
	}
	return nil
}

func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []RegistrationDoc, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "country", "category"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search registrations: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source RegistrationDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	docs := make([]RegistrationDoc, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
