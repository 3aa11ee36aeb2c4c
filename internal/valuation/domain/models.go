package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// TierStandard is the flat valuation row used for non-residential operations
// and as the fallback when no tier-specific row exists.
const TierStandard = "standard"

// OperationValuation is the tenant-negotiated CEE buy-back price, in €/MWh
// cumac, for one operation code and income tier.
type OperationValuation struct {
	ID            snowflake.ID    `json:"id" gorm:"primaryKey"`
	OrgID         snowflake.ID    `json:"organization_id" gorm:"column:org_id;not null;uniqueIndex:ux_valuations_org_op_tier,priority:1"`
	OperationCode string          `json:"operation_code" gorm:"type:text;not null;uniqueIndex:ux_valuations_org_op_tier,priority:2"`
	IncomeTier    string          `json:"income_tier" gorm:"type:text;not null;uniqueIndex:ux_valuations_org_op_tier,priority:3"`
	BuybackPrice  decimal.Decimal `json:"buyback_price" gorm:"type:numeric;not null"`
	CreatedAt     time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (OperationValuation) TableName() string { return "operation_valuations" }
