package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	inventoryEntity "cardmarket.GO/model/entity/inventory"
	inventoryService "cardmarket.GO/service/inventory"
)

const (
	defaultBaseURL = "https://api.justtcg.com/v1"
	pageLimit      = 100
)

// Client talks to the JustTCG pricing API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a client from JUSTTCG_API_KEY. Returns nil when the key
// is not configured, which disables feed sync cleanly.
func NewClient() *Client {
	key := os.Getenv("JUSTTCG_API_KEY")
	if key == "" {
		return nil
	}
	base := os.Getenv("JUSTTCG_BASE_URL")
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL: base,
		apiKey:  key,
		http:    &http.Client{Timeout: 20 * time.Second},
	}
}

// Card is one catalog card as returned by /cards, with its price variants.
type Card struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Game     string    `json:"game"`
	Set      string    `json:"set"`
	SetName  string    `json:"set_name"`
	Number   string    `json:"number"`
	Rarity   string    `json:"rarity"`
	Variants []Variant `json:"variants"`
}

// Variant is one (condition, printing, language) price point.
type Variant struct {
	ID             string   `json:"id"`
	Condition      string   `json:"condition"`
	Printing       string   `json:"printing"`
	Language       string   `json:"language"`
	TCGPlayerSkuID *int64   `json:"tcgplayerSkuId"`
	Price          *float64 `json:"price"`
	LastUpdated    int64    `json:"lastUpdated"`
}

// FetchCards pulls one page of cards for a game/set.
func (c *Client) FetchCards(ctx context.Context, game, set string, offset int) ([]Card, error) {
	params := url.Values{}
	params.Set("game", game)
	params.Set("set", set)
	params.Set("limit", strconv.Itoa(pageLimit))
	params.Set("offset", strconv.Itoa(offset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cards?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("justtcg: %s", resp.Status)
	}

	var body struct {
		Data []Card `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

// SyncSet refreshes prices for every inventory record whose SKU matches a
// feed variant, tagging the rows price_source=api. Unmatched variants are
// ignored: the feed covers whole sets, the store stocks a subset.
func (c *Client) SyncSet(ctx context.Context, proc *inventoryService.Processor, game, set string) (*inventoryService.ReconcileResult, error) {
	var rows []inventoryService.CorrectionRow

	for offset := 0; ; offset += pageLimit {
		cards, err := c.FetchCards(ctx, game, set, offset)
		if err != nil {
			return nil, fmt.Errorf("fetch %s/%s page at %d: %w", game, set, offset, err)
		}
		for _, card := range cards {
			for _, v := range card.Variants {
				if v.Price == nil {
					continue
				}
				rows = append(rows, inventoryService.CorrectionRow{
					SKU:    variantSKU(v),
					Price:  v.Price,
					Source: inventoryEntity.PriceSourceAPI,
				})
			}
		}
		if len(cards) < pageLimit {
			break
		}
	}

	result, err := proc.ApplyCorrections(rows)
	if err != nil {
		return nil, err
	}
	// Feed rows for cards we do not stock land in Errors as "sku not found";
	// that is expected, so they are downgraded to a single warning.
	result.Errors, result.Warnings = splitNotFound(result.Errors, result.Warnings)
	return result, nil
}

// variantSKU derives the stable external identifier for a feed variant:
// the TCGPlayer SKU when present, the JustTCG variant id otherwise.
func variantSKU(v Variant) string {
	if v.TCGPlayerSkuID != nil {
		return strconv.FormatInt(*v.TCGPlayerSkuID, 10)
	}
	return v.ID
}

func splitNotFound(errs, warnings []string) ([]string, []string) {
	kept := errs[:0]
	notFound := 0
	for _, e := range errs {
		if len(e) >= 13 && e[len(e)-13:] == "sku not found" {
			notFound++
			continue
		}
		kept = append(kept, e)
	}
	if notFound > 0 {
		warnings = append(warnings, fmt.Sprintf("%d feed variant(s) not stocked, skipped", notFound))
	}
	return kept, warnings
}
