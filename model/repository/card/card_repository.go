package card

import (
	"gorm.io/gorm"

	cardEntity "cardmarket.GO/model/entity/card"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

func (r *CardRepository) Create(c *cardEntity.Card) error {
	return r.db.Create(c).Error
}

func (r *CardRepository) FindByID(id uint) (*cardEntity.Card, error) {
	var c cardEntity.Card
	if err := r.db.First(&c, "card_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindBySetAndNumber returns a card by its natural key.
func (r *CardRepository) FindBySetAndNumber(game, setCode, number string) (*cardEntity.Card, error) {
	var c cardEntity.Card
	err := r.db.Where("game = ? AND set_code = ? AND number = ?", game, setCode, number).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SearchByName returns cards whose name matches the query, paginated.
// LIKE match, used as the fallback when Elasticsearch is unavailable.
func (r *CardRepository) SearchByName(game, query string, limit, offset int) ([]cardEntity.Card, int64, error) {
	q := r.db.Model(&cardEntity.Card{}).Where("name LIKE ?", "%"+query+"%")
	if game != "" {
		q = q.Where("game = ?", game)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var cards []cardEntity.Card
	err := q.Order("name ASC").Limit(limit).Offset(offset).Find(&cards).Error
	return cards, total, err
}

// List returns catalog cards for a game, optionally scoped to one set, paginated.
func (r *CardRepository) List(game, setCode string, limit, offset int) ([]cardEntity.Card, int64, error) {
	q := r.db.Model(&cardEntity.Card{})
	if game != "" {
		q = q.Where("game = ?", game)
	}
	if setCode != "" {
		q = q.Where("set_code = ?", setCode)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var cards []cardEntity.Card
	err := q.Order("set_code ASC, number ASC").Limit(limit).Offset(offset).Find(&cards).Error
	return cards, total, err
}

// BatchGetByIDs fetches cards for a set of ids in one query.
func (r *CardRepository) BatchGetByIDs(ids []uint) (map[uint]cardEntity.Card, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var cards []cardEntity.Card
	if err := r.db.Where("card_id IN ?", ids).Find(&cards).Error; err != nil {
		return nil, err
	}
	m := make(map[uint]cardEntity.Card, len(cards))
	for _, c := range cards {
		m[c.CardID] = c
	}
	return m, nil
}
