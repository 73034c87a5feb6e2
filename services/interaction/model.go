package interaction

import (
	"time"

	"gorm.io/datatypes"
)

// Kind is one recorded user action against a lens.
type Kind string

const (
	KindApply    Kind = "apply"
	KindCapture  Kind = "capture"
	KindShare    Kind = "share"
	KindDownload Kind = "download"
)

func (k Kind) Valid() bool {
	switch k {
	case KindApply, KindCapture, KindShare, KindDownload:
		return true
	default:
		return false
	}
}

// Interaction is an append-only fact. Rows are never mutated or deleted;
// the weekly aggregation only reads them.
type Interaction struct {
	ID        string         `gorm:"column:id;primaryKey;type:char(26)" json:"id"`
	LensID    string         `gorm:"column:lens_id;type:varchar(64);not null;index" json:"lens_id"`
	UserID    string         `gorm:"column:user_id;type:varchar(64);index" json:"user_id,omitempty"`
	Kind      Kind           `gorm:"column:kind;type:varchar(20);not null" json:"kind"`
	Metadata  datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (Interaction) TableName() string {
	return "lens_interactions"
}
