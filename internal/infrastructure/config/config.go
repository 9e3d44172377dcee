package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	AuthProviderFirebase = "firebase"
	AuthProviderJWT      = "jwt"
)

// Config contém todas as configurações da aplicação
type Config struct {
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Stripe   StripeConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	I18n     I18nConfig
}

type ServerConfig struct {
	Port    string
	Host    string
	BaseURL string // URL base da API para construir URIs RFC 7807
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
	MaxIdleTime int
	AutoMigrate bool
	LogLevel    string
}

// AuthConfig configura a verificação de bearer tokens
type AuthConfig struct {
	Provider                 string // firebase | jwt
	FirebaseProjectID        string
	CredentialsFile          string
	ServiceAccountJSONBase64 string
	JWTSecret                string
	JWTIssuer                string
	JWTAudience              string
	Timeout                  time.Duration
	MaxRetries               int
}

// StripeConfig configura o processador de pagamentos
type StripeConfig struct {
	SecretKey   string
	SuccessURL  string
	CancelURL   string
	LitePriceID string
	ProPriceID  string
	Timeout     time.Duration
	MaxRetries  int
}

type LoggingConfig struct {
	Level string
}

type CORSConfig struct {
	AllowedOrigins string
}

type I18nConfig struct {
	LocalesDir      string
	DefaultLanguage string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "8000")
	v.SetDefault("API_BASE_URL", "http://localhost:8000")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_TIME", 300)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("I18N_LOCALES_DIR", "")
	v.SetDefault("I18N_DEFAULT_LANGUAGE", "en")
	v.SetDefault("AUTH_PROVIDER", AuthProviderFirebase)
	v.SetDefault("AUTH_TIMEOUT", "5s")
	v.SetDefault("AUTH_MAX_RETRIES", 2)
	v.SetDefault("STRIPE_TIMEOUT", "10s")
	v.SetDefault("STRIPE_MAX_RETRIES", 2)
}

// Load carrega as configurações do ambiente (e do arquivo .env, se existir)
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	config := fromViper(v)
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Env: v.GetString("ENV"),
		Server: ServerConfig{
			Port:    v.GetString("PORT"),
			Host:    v.GetString("HOST"),
			BaseURL: v.GetString("API_BASE_URL"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSL_MODE"),
			MaxConns:    v.GetInt("DB_MAX_CONNS"),
			MinConns:    v.GetInt("DB_MIN_CONNS"),
			MaxIdleTime: v.GetInt("DB_MAX_IDLE_TIME"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
			LogLevel:    v.GetString("DB_LOG_LEVEL"),
		},
		Auth: AuthConfig{
			Provider:                 strings.ToLower(v.GetString("AUTH_PROVIDER")),
			FirebaseProjectID:        v.GetString("FIREBASE_PROJECT_ID"),
			CredentialsFile:          v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
			ServiceAccountJSONBase64: v.GetString("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"),
			JWTSecret:                v.GetString("AUTH_JWT_SECRET"),
			JWTIssuer:                v.GetString("AUTH_JWT_ISSUER"),
			JWTAudience:              v.GetString("AUTH_JWT_AUDIENCE"),
			Timeout:                  v.GetDuration("AUTH_TIMEOUT"),
			MaxRetries:               v.GetInt("AUTH_MAX_RETRIES"),
		},
		Stripe: StripeConfig{
			SecretKey:   v.GetString("STRIPE_SECRET_KEY"),
			SuccessURL:  v.GetString("STRIPE_SUCCESS_URL"),
			CancelURL:   v.GetString("STRIPE_CANCEL_URL"),
			LitePriceID: v.GetString("STRIPE_PRICE_LITE"),
			ProPriceID:  v.GetString("STRIPE_PRICE_PRO"),
			Timeout:     v.GetDuration("STRIPE_TIMEOUT"),
			MaxRetries:  v.GetInt("STRIPE_MAX_RETRIES"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		},
		I18n: I18nConfig{
			LocalesDir:      v.GetString("I18N_LOCALES_DIR"),
			DefaultLanguage: v.GetString("I18N_DEFAULT_LANGUAGE"),
		},
	}
}

// Validate verifica os campos obrigatórios de cada provedor configurado
func (c *Config) Validate() error {
	var errs []error

	if c.Database.DBName == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}

	switch c.Auth.Provider {
	case AuthProviderFirebase:
		if c.Auth.FirebaseProjectID == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required"))
		}
	case AuthProviderJWT:
		if c.Auth.JWTSecret == "" {
			errs = append(errs, errors.New("AUTH_JWT_SECRET is required when AUTH_PROVIDER=jwt"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported AUTH_PROVIDER %q", c.Auth.Provider))
	}

	if c.Auth.Timeout <= 0 {
		errs = append(errs, errors.New("AUTH_TIMEOUT must be positive"))
	}
	if c.Auth.MaxRetries < 0 {
		errs = append(errs, errors.New("AUTH_MAX_RETRIES must not be negative"))
	}

	if c.Stripe.SecretKey == "" {
		errs = append(errs, errors.New("STRIPE_SECRET_KEY is required"))
	}
	if c.Stripe.SuccessURL == "" || c.Stripe.CancelURL == "" {
		errs = append(errs, errors.New("STRIPE_SUCCESS_URL and STRIPE_CANCEL_URL are required"))
	}
	if c.Stripe.Timeout <= 0 {
		errs = append(errs, errors.New("STRIPE_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// Origins retorna a lista de origens CORS
func (c *CORSConfig) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// DSN retorna a connection string do PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}
