package resolvers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"

	gqlmodels "cardmarket.GO/graphql/models"
)

var (
	searchServiceInstance *SearchService
	searchServiceOnce     sync.Once
)

// GetSearchService returns singleton SearchService.
func GetSearchService() *SearchService {
	searchServiceOnce.Do(func() {
		searchServiceInstance = NewSearchService()
	})
	return searchServiceInstance
}

type SearchService struct {
	client *elasticsearch.Client
	prefix string
}

func NewSearchService() *SearchService {
	host := os.Getenv("ELASTICSEARCH_HOST")
	if host == "" {
		host = "http://localhost:9200"
	}
	prefix := os.Getenv("ELASTICSEARCH_INDEX_PREFIX")
	if prefix == "" {
		prefix = "cardmarket"
	}

	cfg := elasticsearch.Config{
		Addresses: []string{host},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return &SearchService{prefix: prefix}
	}

	return &SearchService{
		client: client,
		prefix: prefix,
	}
}

// Search (resolver) delegates to SearchService, falling back to a SQL LIKE
// scan when Elasticsearch is not configured or unreachable.
func (r *Resolver) Search(ctx context.Context, query string, pageSize, currentPage int) (*gqlmodels.CardSearchResult, error) {
	ps, cp := normalizePage(pageSize, currentPage)
	game := r.gameScope(ctx, nil)

	res, err := r.searchService().Search(ctx, game, query, ps, cp)
	if err == nil {
		return res, nil
	}
	log.Printf("search: elasticsearch unavailable, falling back to SQL: %v", err)

	cards, total, serr := r.cardRepo().SearchByName(game, query, ps, (cp-1)*ps)
	if serr != nil {
		return nil, serr
	}
	items := make([]*gqlmodels.Card, 0, len(cards))
	for i := range cards {
		items = append(items, cardToModel(&cards[i]))
	}
	return &gqlmodels.CardSearchResult{
		Items:      items,
		TotalCount: int32(total),
		PageInfo:   pageInfo(ps, cp, int(total)),
	}, nil
}

// Search queries the catalog index: {prefix}_card.
func (s *SearchService) Search(ctx context.Context, game, query string, pageSize, currentPage int) (*gqlmodels.CardSearchResult, error) {
	if s.client == nil {
		return nil, fmt.Errorf("elasticsearch not configured")
	}

	indexName := fmt.Sprintf("%s_card", s.prefix)
	from := (currentPage - 1) * pageSize

	must := []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name^3", "set_name", "number"},
			},
		},
	}
	boolQuery := map[string]interface{}{"must": must}
	if game != "" {
		boolQuery["filter"] = []map[string]interface{}{
			{"term": map[string]interface{}{"game": game}},
		}
	}
	body := map[string]interface{}{
		"from":  from,
		"size":  pageSize,
		"query": map[string]interface{}{"bool": boolQuery},
	}

	bodyBytes, _ := json.Marshal(body)

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(indexName),
		s.client.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, err
	}

	items := make([]*gqlmodels.Card, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		c, derr := decodeCardSource(hit.Source)
		if derr != nil {
			log.Printf("search: skipping malformed hit: %v", derr)
			continue
		}
		items = append(items, c)
	}

	return &gqlmodels.CardSearchResult{
		Items:      items,
		TotalCount: int32(esResp.Hits.Total.Value),
		PageInfo:   pageInfo(pageSize, currentPage, esResp.Hits.Total.Value),
	}, nil
}
