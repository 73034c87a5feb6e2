package lens

import (
	"time"
)

// Lens is one AR effect registered in the catalog. The ID is the public
// identifier clients reference when tracking interactions.
type Lens struct {
	ID          string    `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	Name        string    `gorm:"column:name;type:text;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Creator     string    `gorm:"column:creator;type:text;not null;index" json:"creator"`
	Downloads   int64     `gorm:"column:downloads;default:0" json:"downloads"`
	SnapLensID  string    `gorm:"column:snap_lens_id;type:text;not null" json:"snap_lens_id"`
	SnapGroupID string    `gorm:"column:snap_group_id;type:text" json:"snap_group_id"`
	Category    string    `gorm:"column:category;type:text;default:'all'" json:"category"`
	IsActive    bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Lens) TableName() string {
	return "lenses"
}
