package models

import "github.com/shopspring/decimal"

type InventoryItem struct {
	BaseModel
	Name              string          `gorm:"type:varchar(150);not null" json:"name"`
	SKU               string          `gorm:"type:varchar(64);index" json:"sku,omitempty"`
	Description       string          `gorm:"type:text" json:"description,omitempty"`
	Quantity          int             `gorm:"not null;default:0" json:"quantity"`
	LowStockThreshold int             `gorm:"not null;default:0" json:"low_stock_threshold"`
	UnitPrice         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"unit_price"`
	Location          string          `gorm:"type:varchar(255)" json:"location,omitempty"`
	CategoryID        *uint           `gorm:"index" json:"category_id,omitempty"`
	OwnerID           uint            `gorm:"not null;index" json:"owner_id"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
	Owner    User      `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

// LowStock reports whether the item is at or below its threshold.
func (i *InventoryItem) LowStock() bool {
	return i.Quantity <= i.LowStockThreshold
}

// TotalValue is quantity times unit price.
func (i *InventoryItem) TotalValue() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
