package resolvers

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"cardmarket.GO/graphql"
	gqlregistry "cardmarket.GO/graphql/registry"
	cardRepo "cardmarket.GO/model/repository/card"
	inventoryRepo "cardmarket.GO/model/repository/inventory"
)

func init() {
	gqlregistry.RegisterQueryResolverFactory(func(db interface{}) interface{} {
		return NewResolver(db.(*gorm.DB), "")
	})
}

// Resolver handles all Query fields for one request. Created per request with
// the game scope from headers/variables. Methods live in card.go and search.go.
// New Query fields: use RegisterSchemaExtension + add method here, or use
// _extension for fully dynamic resolvers.
type Resolver struct {
	db   *gorm.DB
	game string
}

func NewResolver(db *gorm.DB, game string) *Resolver {
	return &Resolver{db: db, game: game}
}

func (r *Resolver) cardRepo() *cardRepo.CardRepository {
	return cardRepo.NewCardRepository(r.db)
}

func (r *Resolver) inventoryRepo() (*inventoryRepo.InventoryRepository, error) {
	return inventoryRepo.NewInventoryRepository(r.db)
}

// gameScope prefers an explicit argument over the request game context.
func (r *Resolver) gameScope(ctx context.Context, arg *string) string {
	if arg != nil && *arg != "" {
		return *arg
	}
	if r.game != "" {
		return r.game
	}
	return graphql.GameFromContext(ctx)
}

func (r *Resolver) searchService() *SearchService {
	return GetSearchService()
}

// Extension dispatches to registered custom resolvers.
func (r *Resolver) Extension(ctx context.Context, name string, rawArgs *string) (*string, error) {
	m := make(map[string]interface{})
	if rawArgs != nil && *rawArgs != "" {
		_ = json.Unmarshal([]byte(*rawArgs), &m)
	}
	out, err := gqlregistry.Resolve(ctx, name, m)
	if err != nil {
		return nil, err
	}
	b, _ := json.Marshal(out)
	s := string(b)
	return &s, nil
}
