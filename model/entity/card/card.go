package card

import "time"

// Card represents one printed card in the catalog, independent of condition
// or finish. Sellable units live in inventory_record.
type Card struct {
	CardID       uint      `gorm:"column:card_id;primaryKey;autoIncrement" json:"card_id,omitempty"`
	Game         string    `gorm:"column:game;type:varchar(32);not null;uniqueIndex:idx_card_unq,priority:1" json:"game"`
	SetCode      string    `gorm:"column:set_code;type:varchar(64);not null;uniqueIndex:idx_card_unq,priority:2" json:"set_code"`
	Number       string    `gorm:"column:number;type:varchar(16);not null;uniqueIndex:idx_card_unq,priority:3" json:"number"`
	Name         string    `gorm:"column:name;type:varchar(255);not null;index" json:"name"`
	SetName      string    `gorm:"column:set_name;type:varchar(255)" json:"set_name"`
	Rarity       string    `gorm:"column:rarity;type:varchar(64)" json:"rarity"`
	TCGPlayerID  *uint     `gorm:"column:tcgplayer_id" json:"tcgplayer_id,omitempty"`
	JustTCGID    string    `gorm:"column:justtcg_id;type:varchar(64);index" json:"justtcg_id,omitempty"`
	ImagePath    string    `gorm:"column:image_path;type:varchar(255)" json:"image_path,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Card) TableName() string {
	return "card"
}
