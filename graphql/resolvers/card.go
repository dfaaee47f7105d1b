package resolvers

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	gqlmodels "cardmarket.GO/graphql/models"
)

// Cards lists the catalog, scoped to a game and optionally one set.
func (r *Resolver) Cards(ctx context.Context, game, setCode *string, pageSize, currentPage int) (*gqlmodels.CardSearchResult, error) {
	ps, cp := normalizePage(pageSize, currentPage)
	set := ""
	if setCode != nil {
		set = *setCode
	}

	cards, total, err := r.cardRepo().List(r.gameScope(ctx, game), set, ps, (cp-1)*ps)
	if err != nil {
		return nil, err
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

// Card returns one card by catalog id or by the SKU of a sellable unit.
// Inventory entries are attached for single-card lookups.
func (r *Resolver) Card(ctx context.Context, id, sku *string) (*gqlmodels.Card, error) {
	repo := r.cardRepo()

	var cardID uint
	switch {
	case id != nil && *id != "":
		n, err := strconv.ParseUint(*id, 10, 64)
		if err != nil {
			return nil, errors.New("card: id must be numeric")
		}
		cardID = uint(n)
	case sku != nil && *sku != "":
		inv, err := r.inventoryRepo()
		if err != nil {
			return nil, err
		}
		rec, err := inv.GetBySKU(*sku)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		cardID = rec.CardID
	default:
		return nil, errors.New("card: id or sku required")
	}

	c, err := repo.FindByID(cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	out := cardToModel(c)
	entries, err := r.Inventory(ctx, strconv.FormatUint(uint64(cardID), 10))
	if err != nil {
		return nil, err
	}
	out.Inventory = &entries
	return out, nil
}

// Inventory returns the sellable units of a card.
func (r *Resolver) Inventory(ctx context.Context, cardID string) ([]*gqlmodels.InventoryEntry, error) {
	n, err := strconv.ParseUint(cardID, 10, 64)
	if err != nil {
		return nil, errors.New("inventory: cardId must be numeric")
	}
	inv, err := r.inventoryRepo()
	if err != nil {
		return nil, err
	}
	recs, err := inv.GetAllByCard(uint(n))
	if err != nil {
		return nil, err
	}
	entries := make([]*gqlmodels.InventoryEntry, 0, len(recs))
	for i := range recs {
		entries = append(entries, inventoryToModel(&recs[i]))
	}
	return entries, nil
}

func normalizePage(pageSize, currentPage int) (int, int) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	if currentPage <= 0 {
		currentPage = 1
	}
	return pageSize, currentPage
}

func pageInfo(pageSize, currentPage, total int) *gqlmodels.PageInfo {
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	return &gqlmodels.PageInfo{
		PageSize:    int32(pageSize),
		CurrentPage: int32(currentPage),
		TotalPages:  int32(totalPages),
	}
}
