package postgres

import (
	"time"

	"gorm.io/datatypes"
)

// UserModel é o model GORM para usuários
type UserModel struct {
	ID                  uint       `gorm:"primaryKey"`
	Email               *string    `gorm:"type:varchar(255);uniqueIndex"` // NULL quando o provedor não envia email
	FirebaseUID         string     `gorm:"column:firebase_uid;type:varchar(128);uniqueIndex;not null"`
	StripeCustomerID    *string    `gorm:"column:stripe_customer_id;type:varchar(255);uniqueIndex"`
	SubscriptionStatus  string     `gorm:"type:varchar(20);not null;default:'free';index"`
	SubscriptionEndDate *time.Time `gorm:"column:subscription_end_date"`
	CreatedAt           int64      `gorm:"autoCreateTime;index"`
	UpdatedAt           int64      `gorm:"autoUpdateTime"`

	Profile     *ProfileModel     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Preferences *PreferencesModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (UserModel) TableName() string {
	return "users"
}

// ProfileModel é o model GORM para user_profiles
type ProfileModel struct {
	ID                uint    `gorm:"primaryKey"`
	UserID            uint    `gorm:"not null;uniqueIndex"`
	FullName          *string `gorm:"type:varchar(255)"`
	Bio               *string `gorm:"type:text"`
	WritingExperience *string `gorm:"type:varchar(255)"`
	GenreFocus        *string `gorm:"type:varchar(255)"`
	CreatedAt         int64   `gorm:"autoCreateTime"`
	UpdatedAt         int64   `gorm:"autoUpdateTime"`
}

func (ProfileModel) TableName() string {
	return "user_profiles"
}

// PreferencesModel é o model GORM para user_preferences
type PreferencesModel struct {
	ID                   uint           `gorm:"primaryKey"`
	UserID               uint           `gorm:"not null;uniqueIndex"`
	Theme                string         `gorm:"type:varchar(50);not null;default:'light'"`
	WritingStyle         *string        `gorm:"type:varchar(255)"`
	AIModelPreference    string         `gorm:"column:ai_model_preference;type:varchar(100);not null;default:'gpt-4'"`
	NotificationSettings datatypes.JSON `gorm:"column:notification_settings"`
	CreatedAt            int64          `gorm:"autoCreateTime"`
	UpdatedAt            int64          `gorm:"autoUpdateTime"`
}

func (PreferencesModel) TableName() string {
	return "user_preferences"
}

// allModels lista os models na ordem de migração
func allModels() []any {
	return []any{&UserModel{}, &ProfileModel{}, &PreferencesModel{}}
}
