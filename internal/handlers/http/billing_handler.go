package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/rafabene/scribe-backend/internal/domain/errors"
	"github.com/rafabene/scribe-backend/internal/handlers/dto"
	"github.com/rafabene/scribe-backend/internal/handlers/middleware"
	"github.com/rafabene/scribe-backend/internal/services"
)

// BillingHandler lida com planos e checkout
type BillingHandler struct {
	billingService *services.BillingService
	errors         *ErrorMapper
}

// NewBillingHandler cria um novo BillingHandler
func NewBillingHandler(billingService *services.BillingService, errorMapper *ErrorMapper) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		errors:         errorMapper,
	}
}

// ListPlans godoc
// @Summary      Catálogo de planos
// @Tags         billing
// @Produce      json
// @Success      200  {object}  dto.PlansResponse
// @Router       /plans [get]
func (h *BillingHandler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToPlansResponse(h.billingService.Plans()))
}

// CreateCheckoutSession godoc
// @Summary      Abre um checkout de assinatura
// @Description  Cria o cliente no processador de pagamento no primeiro checkout
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.CheckoutSessionRequest  true  "Price do plano"
// @Success      200      {object}  dto.CheckoutSessionResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      401      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /create-checkout-session [post]
func (h *BillingHandler) CreateCheckoutSession(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		h.errors.Respond(c, domainerrors.Unauthenticated(domainerrors.MsgMissingToken, nil))
		return
	}

	var req dto.CheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.RespondValidation(c, err)
		return
	}

	session, err := h.billingService.CreateCheckoutSession(c.Request.Context(), identity, req.PriceID)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutSessionResponse{SessionURL: session.URL})
}
