package creator

import "time"

// Creator maps a lens creator's display name to a payout address. A creator
// without a row here (or with an empty address) is excluded from reward runs;
// funds are never routed to a shared fallback address.
type Creator struct {
	ID            string    `gorm:"column:id;primaryKey;type:char(26)" json:"id"`
	Name          string    `gorm:"column:name;type:text;not null;uniqueIndex" json:"name"`
	PayoutAddress string    `gorm:"column:payout_address;type:varchar(64)" json:"payout_address"`
	IsActive      bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Creator) TableName() string {
	return "creators"
}
