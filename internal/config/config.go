package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	CORSAllowOrigins       string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	JWTSecret              string
	JWTRefreshSecret       string
	TokenTTL               time.Duration
	RefreshTokenTTL        time.Duration
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	LeaderboardCacheTTL    time.Duration
	DashboardCacheTTL      time.Duration
	DiagnosticThresholds   DiagnosticThresholds
	GamificationSubject    string
}

// DiagnosticThresholds defines the category boundaries applied to diagnostic
// test percentages. Boundaries are inclusive lower bounds.
type DiagnosticThresholds struct {
	Medio float64
	Alto  float64
}

// Categorize maps a percentage score onto its configured category.
func (t DiagnosticThresholds) Categorize(percentage float64) string {
	switch {
	case percentage >= t.Alto:
		return "alto"
	case percentage >= t.Medio:
		return "medio"
	default:
		return "bajo"
	}
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LUDICA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Ludica API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("cloudinary.folder", "ludica/recursos")
	v.SetDefault("leaderboard.cache_ttl", "2m")
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("token.ttl", "15m")
	v.SetDefault("token.refresh_ttl", "168h")
	v.SetDefault("diagnostic.medio", 40.0)
	v.SetDefault("diagnostic.alto", 70.0)
	v.SetDefault("gamification.subject", "ludica.gamificacion")

	leaderboardTTL, err := parseDuration(v.GetString("leaderboard.cache_ttl"), "leaderboard cache ttl")
	if err != nil {
		return Config{}, err
	}

	dashboardTTL, err := parseDuration(v.GetString("dashboard.cache_ttl"), "dashboard cache ttl")
	if err != nil {
		return Config{}, err
	}

	tokenTTL, err := parseDuration(v.GetString("token.ttl"), "token ttl")
	if err != nil {
		return Config{}, err
	}

	refreshTTL, err := parseDuration(v.GetString("token.refresh_ttl"), "refresh token ttl")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		CORSAllowOrigins:       v.GetString("cors.allow_origins"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		JWTRefreshSecret:       v.GetString("jwt.refresh_secret"),
		TokenTTL:               tokenTTL,
		RefreshTokenTTL:        refreshTTL,
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		LeaderboardCacheTTL:    leaderboardTTL,
		DashboardCacheTTL:      dashboardTTL,
		DiagnosticThresholds: DiagnosticThresholds{
			Medio: v.GetFloat64("diagnostic.medio"),
			Alto:  v.GetFloat64("diagnostic.alto"),
		},
		GamificationSubject: v.GetString("gamification.subject"),
	}

	if cfg.JWTSecret == "" || cfg.JWTRefreshSecret == "" {
		return Config{}, fmt.Errorf("jwt secrets must be provided")
	}

	if cfg.DiagnosticThresholds.Medio < 0 || cfg.DiagnosticThresholds.Alto > 100 ||
		cfg.DiagnosticThresholds.Medio >= cfg.DiagnosticThresholds.Alto {
		return Config{}, fmt.Errorf("diagnostic thresholds must satisfy 0 <= medio < alto <= 100")
	}

	return cfg, nil
}

func parseDuration(value, label string) (time.Duration, error) {
	if value == "" {
		return 0, fmt.Errorf("missing %s", label)
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", label, err)
	}

	return d, nil
}
