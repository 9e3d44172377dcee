package entities

import (
	"encoding/json"
	"time"
)

const (
	DefaultTheme             = "light"
	DefaultAIModelPreference = "gpt-4"
)

// UserProfile guarda os dados de apresentação do escritor (1:1 com User)
type UserProfile struct {
	ID                uint
	UserID            uint
	FullName          *string
	Bio               *string
	WritingExperience *string
	GenreFocus        *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// UserPreferences guarda as preferências de uso do assistente (1:1 com User)
type UserPreferences struct {
	ID                   uint
	UserID               uint
	Theme                string
	WritingStyle         *string
	AIModelPreference    string
	NotificationSettings json.RawMessage
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewUserPreferences cria preferências com os valores padrão
func NewUserPreferences(userID uint) *UserPreferences {
	return &UserPreferences{
		UserID:            userID,
		Theme:             DefaultTheme,
		AIModelPreference: DefaultAIModelPreference,
	}
}

// ProfileField nomeia um campo de perfil que pode ser limpo com null
type ProfileField string

const (
	ProfileFullName          ProfileField = "full_name"
	ProfileBio               ProfileField = "bio"
	ProfileWritingExperience ProfileField = "writing_experience"
	ProfileGenreFocus        ProfileField = "genre_focus"
)

// ProfileFields lista os campos de perfil na ordem do payload
var ProfileFields = []ProfileField{ProfileFullName, ProfileBio, ProfileWritingExperience, ProfileGenreFocus}

// ProfilePatch contém apenas os campos de perfil enviados na requisição.
// Campos nil não são tocados; os listados em Null voltam a ficar vazios.
type ProfilePatch struct {
	FullName          *string
	Bio               *string
	WritingExperience *string
	GenreFocus        *string
	Null              []ProfileField
}

// IsEmpty indica se o patch não altera nenhum campo
func (p ProfilePatch) IsEmpty() bool {
	return p.FullName == nil && p.Bio == nil && p.WritingExperience == nil && p.GenreFocus == nil &&
		len(p.Null) == 0
}

// PreferenceField nomeia um campo de preferência que pode ser limpo com null.
// Theme e AIModelPreference voltam ao padrão em vez de ficarem vazios.
type PreferenceField string

const (
	PreferenceTheme                PreferenceField = "theme"
	PreferenceWritingStyle         PreferenceField = "writing_style"
	PreferenceAIModel              PreferenceField = "ai_model_preference"
	PreferenceNotificationSettings PreferenceField = "notification_settings"
)

// PreferenceFields lista os campos de preferência na ordem do payload
var PreferenceFields = []PreferenceField{
	PreferenceTheme, PreferenceWritingStyle, PreferenceAIModel, PreferenceNotificationSettings,
}

// PreferencesPatch contém apenas os campos de preferência enviados na requisição
type PreferencesPatch struct {
	Theme                *string
	WritingStyle         *string
	AIModelPreference    *string
	NotificationSettings json.RawMessage // nil = ausente
	Null                 []PreferenceField
}

// IsEmpty indica se o patch não altera nenhum campo
func (p PreferencesPatch) IsEmpty() bool {
	return p.Theme == nil && p.WritingStyle == nil && p.AIModelPreference == nil &&
		p.NotificationSettings == nil && len(p.Null) == 0
}

// ProfileView é a visão combinada devolvida por GET /user/profile
type ProfileView struct {
	Profile             *UserProfile
	Preferences         *UserPreferences
	SubscriptionStatus  SubscriptionStatus
	SubscriptionEndDate *time.Time
}
