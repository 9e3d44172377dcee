package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	domainerrors "github.com/rafabene/scribe-backend/internal/domain/errors"
	"github.com/rafabene/scribe-backend/internal/handlers/dto"
	"github.com/rafabene/scribe-backend/internal/handlers/middleware"
	"github.com/rafabene/scribe-backend/internal/services"
)

// ProfileHandler lida com /user/profile
type ProfileHandler struct {
	profileService *services.ProfileService
	errors         *ErrorMapper
}

// NewProfileHandler cria um novo ProfileHandler
func NewProfileHandler(profileService *services.ProfileService, errorMapper *ErrorMapper) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		errors:         errorMapper,
	}
}

// GetProfile godoc
// @Summary      Perfil do usuário autenticado
// @Description  Cria perfil e preferências com valores padrão no primeiro acesso
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ProfileResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /user/profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		h.errors.Respond(c, domainerrors.Unauthenticated(domainerrors.MsgMissingToken, nil))
		return
	}

	view, err := h.profileService.GetProfile(c.Request.Context(), identity)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileResponse(view))
}

// UpdateProfile godoc
// @Summary      Atualização parcial de perfil e preferências
// @Description  Apenas os campos enviados são alterados
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.UpdateProfileRequest  true  "Campos a alterar"
// @Success      200      {object}  dto.StatusResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      401      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /user/profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		h.errors.Respond(c, domainerrors.Unauthenticated(domainerrors.MsgMissingToken, nil))
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil && !errors.Is(err, io.EOF) {
		h.errors.RespondValidation(c, err)
		return
	}

	// O corpo bruto fica em cache para distinguir null de campo ausente
	body, _ := c.Get(gin.BodyBytesKey)
	raw, _ := body.([]byte)

	input, err := req.ToInput(raw)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}

	if err := h.profileService.UpdateProfile(c.Request.Context(), identity, input); err != nil {
		h.errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: "success"})
}
