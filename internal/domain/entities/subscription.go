package entities

// SubscriptionStatus representa o plano ativo de um usuário
type SubscriptionStatus string

const (
	SubscriptionFree SubscriptionStatus = "free"
	SubscriptionLite SubscriptionStatus = "lite"
	SubscriptionPro  SubscriptionStatus = "pro"
)

// IsValid verifica se o status é um dos planos conhecidos
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionFree, SubscriptionLite, SubscriptionPro:
		return true
	}
	return false
}

// IsPaid indica se o plano exige pagamento recorrente
func (s SubscriptionStatus) IsPaid() bool {
	return s == SubscriptionLite || s == SubscriptionPro
}

// Plan descreve um plano oferecido no checkout
type Plan struct {
	Status  SubscriptionStatus
	PriceID string // vazio para o plano gratuito
}

// PlanCatalog mapeia price IDs do processador de pagamento para planos
type PlanCatalog struct {
	plans []Plan
}

// NewPlanCatalog monta o catálogo a partir dos price IDs configurados.
// O plano gratuito está sempre presente; planos pagos sem price ID são omitidos.
func NewPlanCatalog(litePriceID, proPriceID string) PlanCatalog {
	plans := []Plan{{Status: SubscriptionFree}}
	if litePriceID != "" {
		plans = append(plans, Plan{Status: SubscriptionLite, PriceID: litePriceID})
	}
	if proPriceID != "" {
		plans = append(plans, Plan{Status: SubscriptionPro, PriceID: proPriceID})
	}
	return PlanCatalog{plans: plans}
}

// Plans retorna os planos na ordem free, lite, pro
func (c PlanCatalog) Plans() []Plan {
	out := make([]Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

// HasPaidPlans indica se algum price ID foi configurado
func (c PlanCatalog) HasPaidPlans() bool {
	for _, p := range c.plans {
		if p.Status.IsPaid() {
			return true
		}
	}
	return false
}

// FindByPriceID busca o plano pago correspondente ao price ID
func (c PlanCatalog) FindByPriceID(priceID string) (Plan, bool) {
	if priceID == "" {
		return Plan{}, false
	}
	for _, p := range c.plans {
		if p.PriceID == priceID {
			return p, true
		}
	}
	return Plan{}, false
}
