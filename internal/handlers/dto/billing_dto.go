package dto

import (
	"github.com/rafabene/scribe-backend/internal/domain/entities"
)

// CheckoutSessionRequest é o corpo de POST /create-checkout-session
type CheckoutSessionRequest struct {
	PriceID string `json:"priceId" binding:"required,max=255" example:"price_1PXyZ"`
}

// CheckoutSessionResponse devolve a URL hospedada do checkout
type CheckoutSessionResponse struct {
	SessionURL string `json:"sessionUrl" example:"https://checkout.stripe.com/c/pay/cs_test_a1"`
}

// PlanResponse descreve um plano do catálogo
type PlanResponse struct {
	Name    string `json:"name" example:"lite"`
	PriceID string `json:"priceId,omitempty" example:"price_1PXyZ"`
	Paid    bool   `json:"paid"`
}

// PlansResponse é a resposta de GET /plans
type PlansResponse struct {
	Plans []PlanResponse `json:"plans"`
}

// ToPlansResponse converte o catálogo na ordem free, lite, pro
func ToPlansResponse(plans []entities.Plan) PlansResponse {
	response := PlansResponse{Plans: make([]PlanResponse, len(plans))}
	for i, plan := range plans {
		response.Plans[i] = PlanResponse{
			Name:    string(plan.Status),
			PriceID: plan.PriceID,
			Paid:    plan.Status.IsPaid(),
		}
	}
	return response
}
