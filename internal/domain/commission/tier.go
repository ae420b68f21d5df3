package commission

import (
	"sort"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RoleTypeGeneral marks a tier that applies to every role
const RoleTypeGeneral = "general"

// BaseTierName is reported when sales sit below every configured target
const BaseTierName = "Base"

var hundred = decimal.NewFromInt(100)

// Tier is a commission threshold: once an employee's period sales reach
// TargetAmount, CommissionRate applies to the whole amount.
type Tier struct {
	shared.TenantAggregateRoot
	RoleType       string          `json:"role_type"`
	TierName       string          `json:"tier_name"`
	TargetAmount   decimal.Decimal `json:"target_amount"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	IsActive       bool            `json:"is_active"`
}

// NewTier creates an active tier
func NewTier(tenantID uuid.UUID, roleType, tierName string, target, rate decimal.Decimal) (*Tier, error) {
	if roleType == "" {
		return nil, shared.NewDomainError("INVALID_ROLE_TYPE", "Role type cannot be empty")
	}
	if tierName == "" {
		return nil, shared.NewDomainError("INVALID_TIER_NAME", "Tier name cannot be empty")
	}
	if target.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Target amount cannot be negative")
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, shared.NewDomainError("INVALID_RATE", "Commission rate must be between 0 and 1")
	}

	return &Tier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RoleType:            roleType,
		TierName:            tierName,
		TargetAmount:        target,
		CommissionRate:      rate,
		IsActive:            true,
	}, nil
}

// TierProgress is where a sales amount sits on a tier ladder
type TierProgress struct {
	Current         Tier            `json:"current"`
	Next            *Tier           `json:"next,omitempty"`
	ProgressPercent decimal.Decimal `json:"progress_percent"`
}

// BaseTier is the implicit tier below the lowest target
func BaseTier() Tier {
	return Tier{
		RoleType:       RoleTypeGeneral,
		TierName:       BaseTierName,
		TargetAmount:   decimal.Zero,
		CommissionRate: decimal.Zero,
		IsActive:       true,
	}
}

// ResolveTier finds the current and next tier for a sales amount. Only tiers
// of roleType or the general role take part.
func ResolveTier(tiers []Tier, salesAmount decimal.Decimal, roleType string) TierProgress {
	ladder := make([]Tier, 0, len(tiers))
	for _, t := range tiers {
		if t.RoleType == roleType || t.RoleType == RoleTypeGeneral {
			ladder = append(ladder, t)
		}
	}
	sort.SliceStable(ladder, func(i, j int) bool {
		return ladder[i].TargetAmount.LessThan(ladder[j].TargetAmount)
	})

	progress := TierProgress{Current: BaseTier()}
	for i := range ladder {
		if ladder[i].TargetAmount.LessThanOrEqual(salesAmount) {
			progress.Current = ladder[i]
			continue
		}
		next := ladder[i]
		progress.Next = &next
		break
	}

	if progress.Next == nil || !progress.Next.TargetAmount.IsPositive() {
		progress.ProgressPercent = hundred
		return progress
	}
	progress.ProgressPercent = salesAmount.Div(progress.Next.TargetAmount).Mul(hundred).Round(2)
	return progress
}

// CalculateCommission returns sales × rate without rounding
func CalculateCommission(salesAmount, rate decimal.Decimal) decimal.Decimal {
	return salesAmount.Mul(rate)
}
