package graphqlserver

import (
	"context"
	"encoding/json"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"gorm.io/gorm"

	"cardmarket.GO/graphql"
	gqlmodels "cardmarket.GO/graphql/models"
	"cardmarket.GO/graphql/registry"
	"cardmarket.GO/graphql/resolvers"
)

// RootResolver is the root for graphql-go. Query resolvers are created
// per request with the game scope from headers/variables.
type RootResolver struct {
	DB *gorm.DB
}

// Query returns the query resolver.
func (r *RootResolver) Query() *QueryResolver {
	return &QueryResolver{db: r.DB}
}

// QueryResolver implements Query fields. Delegates to the resolvers package.
type QueryResolver struct {
	db *gorm.DB
}

// CardsArgs matches the cards query arguments (defaults in schema: pageSize=20, currentPage=1).
type CardsArgs struct {
	Game        *string
	SetCode     *string
	PageSize    int32
	CurrentPage int32
}

func (r *QueryResolver) Cards(ctx context.Context, args CardsArgs) (*gqlmodels.CardSearchResult, error) {
	res := resolvers.NewResolver(r.db, graphql.GameFromContext(ctx))
	return res.Cards(ctx, args.Game, args.SetCode, int(args.PageSize), int(args.CurrentPage))
}

// CardArgs matches the card query arguments.
type CardArgs struct {
	ID  *gql.ID
	Sku *string
}

func (r *QueryResolver) Card(ctx context.Context, args CardArgs) (*gqlmodels.Card, error) {
	res := resolvers.NewResolver(r.db, graphql.GameFromContext(ctx))
	var id *string
	if args.ID != nil {
		s := string(*args.ID)
		id = &s
	}
	return res.Card(ctx, id, args.Sku)
}

// InventoryArgs matches the inventory query arguments.
type InventoryArgs struct {
	CardID gql.ID
}

func (r *QueryResolver) Inventory(ctx context.Context, args InventoryArgs) ([]*gqlmodels.InventoryEntry, error) {
	res := resolvers.NewResolver(r.db, graphql.GameFromContext(ctx))
	return res.Inventory(ctx, string(args.CardID))
}

// SearchArgs matches the search query arguments (defaults in schema: pageSize=20, currentPage=1).
type SearchArgs struct {
	Query       string
	PageSize    int32
	CurrentPage int32
}

func (r *QueryResolver) Search(ctx context.Context, args SearchArgs) (*gqlmodels.CardSearchResult, error) {
	res := resolvers.NewResolver(r.db, graphql.GameFromContext(ctx))
	return res.Search(ctx, args.Query, int(args.PageSize), int(args.CurrentPage))
}

// ExtensionArgs for _extension(name, args).
type ExtensionArgs struct {
	Name string
	Args *string
}

func (r *QueryResolver) Extension(ctx context.Context, args ExtensionArgs) (*string, error) {
	var m map[string]interface{}
	if args.Args != nil && *args.Args != "" {
		_ = json.Unmarshal([]byte(*args.Args), &m)
	}
	if m == nil {
		m = make(map[string]interface{})
	}
	out, err := registry.Resolve(ctx, args.Name, m)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// NewSchema parses the schema and returns a graphql-go Schema.
func NewSchema(db *gorm.DB) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), &RootResolver{DB: db}, gql.UseFieldResolvers())
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}
