package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/rafabene/scribe-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/scribe-backend/internal/domain/errors"
	"github.com/rafabene/scribe-backend/internal/services"
)

// UpdateProfileRequest é o payload parcial de PUT /user/profile.
// Campos ausentes não são alterados; null explícito limpa o campo.
type UpdateProfileRequest struct {
	FullName             *string         `json:"full_name" binding:"omitnil,max=200"`
	Bio                  *string         `json:"bio" binding:"omitnil,max=5000"`
	WritingExperience    *string         `json:"writing_experience" binding:"omitnil,max=100"`
	GenreFocus           *string         `json:"genre_focus" binding:"omitnil,max=200"`
	Theme                *string         `json:"theme" binding:"omitnil,oneof=light dark system"`
	WritingStyle         *string         `json:"writing_style" binding:"omitnil,max=200"`
	AIModelPreference    *string         `json:"ai_model_preference" binding:"omitnil,min=1,max=100"`
	NotificationSettings json.RawMessage `json:"notification_settings" swaggertype:"object"`
}

// ToInput separa os campos por tabela. body é o JSON bruto já vinculado em r,
// usado para distinguir null explícito de campo ausente.
// notification_settings precisa ser objeto ou null.
func (r UpdateProfileRequest) ToInput(body []byte) (services.UpdateProfileInput, error) {
	nulls, err := explicitNulls(body)
	if err != nil {
		return services.UpdateProfileInput{}, domainerrors.Validation(domainerrors.MsgInvalidProfilePayload, err)
	}

	settings := bytes.TrimSpace(r.NotificationSettings)
	if len(settings) == 0 || isJSONNull(settings) {
		settings = nil
	} else if settings[0] != '{' {
		return services.UpdateProfileInput{}, domainerrors.Validation(domainerrors.MsgInvalidProfilePayload, nil)
	}

	input := services.UpdateProfileInput{
		Profile: entities.ProfilePatch{
			FullName:          r.FullName,
			Bio:               r.Bio,
			WritingExperience: r.WritingExperience,
			GenreFocus:        r.GenreFocus,
		},
		Preferences: entities.PreferencesPatch{
			Theme:                r.Theme,
			WritingStyle:         r.WritingStyle,
			AIModelPreference:    r.AIModelPreference,
			NotificationSettings: settings,
		},
	}

	for _, field := range entities.ProfileFields {
		if nulls[string(field)] {
			input.Profile.Null = append(input.Profile.Null, field)
		}
	}
	for _, field := range entities.PreferenceFields {
		if nulls[string(field)] {
			input.Preferences.Null = append(input.Preferences.Null, field)
		}
	}

	return input, nil
}

// explicitNulls devolve as chaves do objeto enviadas com valor null
func explicitNulls(body []byte) (map[string]bool, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}

	nulls := make(map[string]bool)
	for key, value := range fields {
		if isJSONNull(value) {
			nulls[key] = true
		}
	}
	return nulls, nil
}

func isJSONNull(value []byte) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

// ProfileResponse é a visão combinada de perfil, preferências e assinatura
type ProfileResponse struct {
	FullName             string          `json:"full_name"`
	Bio                  string          `json:"bio"`
	WritingExperience    string          `json:"writing_experience"`
	GenreFocus           string          `json:"genre_focus"`
	Theme                string          `json:"theme" example:"light"`
	WritingStyle         string          `json:"writing_style"`
	AIModelPreference    string          `json:"ai_model_preference" example:"gpt-4"`
	NotificationSettings json.RawMessage `json:"notification_settings" swaggertype:"object"`
	SubscriptionStatus   string          `json:"subscription_status" example:"free"`
	SubscriptionEndDate  *time.Time      `json:"subscription_end_date"`
}

// ToProfileResponse aplica os padrões ("" para texto, light, gpt-4, {})
func ToProfileResponse(view *entities.ProfileView) ProfileResponse {
	response := ProfileResponse{
		Theme:                entities.DefaultTheme,
		AIModelPreference:    entities.DefaultAIModelPreference,
		NotificationSettings: json.RawMessage(`{}`),
		SubscriptionStatus:   string(entities.SubscriptionFree),
		SubscriptionEndDate:  view.SubscriptionEndDate,
	}

	if view.SubscriptionStatus != "" {
		response.SubscriptionStatus = string(view.SubscriptionStatus)
	}

	if p := view.Profile; p != nil {
		response.FullName = deref(p.FullName)
		response.Bio = deref(p.Bio)
		response.WritingExperience = deref(p.WritingExperience)
		response.GenreFocus = deref(p.GenreFocus)
	}

	if prefs := view.Preferences; prefs != nil {
		if prefs.Theme != "" {
			response.Theme = prefs.Theme
		}
		if prefs.AIModelPreference != "" {
			response.AIModelPreference = prefs.AIModelPreference
		}
		response.WritingStyle = deref(prefs.WritingStyle)
		if len(prefs.NotificationSettings) > 0 && string(prefs.NotificationSettings) != "null" {
			response.NotificationSettings = prefs.NotificationSettings
		}
	}

	return response
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
