package resolvers

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/mitchellh/mapstructure"

	gqlmodels "cardmarket.GO/graphql/models"
	cardEntity "cardmarket.GO/model/entity/card"
	inventoryEntity "cardmarket.GO/model/entity/inventory"
)

func cardToModel(c *cardEntity.Card) *gqlmodels.Card {
	out := &gqlmodels.Card{
		CardID:  gql.ID(strconv.FormatUint(uint64(c.CardID), 10)),
		Game:    c.Game,
		SetCode: c.SetCode,
		Number:  c.Number,
		Name:    c.Name,
	}
	if c.SetName != "" {
		out.SetName = &c.SetName
	}
	if c.Rarity != "" {
		out.Rarity = &c.Rarity
	}
	if c.ImagePath != "" {
		out.ImagePath = &c.ImagePath
	}
	return out
}

func inventoryToModel(rec *inventoryEntity.InventoryRecord) *gqlmodels.InventoryEntry {
	out := &gqlmodels.InventoryEntry{
		InventoryID:   gql.ID(strconv.FormatUint(uint64(rec.InventoryID), 10)),
		SKU:           rec.SKU,
		Quality:       rec.Quality,
		Foil:          rec.Foil,
		Language:      rec.Language,
		StockQuantity: int32(rec.StockQuantity),
		Price:         rec.Price,
		PriceSource:   rec.PriceSource,
	}
	if !rec.LastPriceUpdate.IsZero() {
		s := rec.LastPriceUpdate.Format(time.RFC3339)
		out.LastPriceUpdate = &s
	}
	return out
}

// decodeCardSource maps an Elasticsearch _source document onto the GraphQL
// card model. ES returns numbers as float64 and flags as 0/1; the hooks
// normalize both.
func decodeCardSource(src map[string]interface{}) (*gqlmodels.Card, error) {
	var out gqlmodels.Card
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			numberToStringHook(),
			intToBoolHook(),
		),
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(src); err != nil {
		return nil, err
	}
	return &out, nil
}

func numberToStringHook() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if t.Kind() != reflect.String {
			return data, nil
		}
		switch f.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return fmt.Sprint(data), nil
		}
		return data, nil
	}
}

func intToBoolHook() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if t.Kind() != reflect.Bool {
			return data, nil
		}
		switch v := data.(type) {
		case int:
			return v != 0, nil
		case int64:
			return v != 0, nil
		case float64:
			return v != 0, nil
		}
		return data, nil
	}
}
