package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionPlan define los módulos y límites que una empresa contrata.
// Un límite en 0 significa ilimitado.
type SubscriptionPlan struct {
	ID           string
	Name         string
	Modules      []string
	MaxUsers     int
	MaxAssets    int
	PriceMonthly decimal.Decimal
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Includes informa si el plan habilita el módulo.
func (p *SubscriptionPlan) Includes(module string) bool {
	for _, m := range p.Modules {
		if m == module {
			return true
		}
	}
	return false
}

// UsersLimitReached informa si con current usuarios ya no caben más.
func (p *SubscriptionPlan) UsersLimitReached(current int) bool {
	return p.MaxUsers > 0 && current >= p.MaxUsers
}

// AssetsLimitReached informa si con current activos ya no caben más.
func (p *SubscriptionPlan) AssetsLimitReached(current int) bool {
	return p.MaxAssets > 0 && current >= p.MaxAssets
}
