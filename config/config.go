package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	HealthPort        string `mapstructure:"HEALTH_PORT"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSAllowedOrigin string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	MaxUploadBytes    int64  `mapstructure:"MAX_UPLOAD_BYTES"`

	// Proxies whose X-Forwarded-For is believed; empty trusts none.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES"`

	// Upstream guide API.
	GuideAPIBaseURL string        `mapstructure:"GUIDE_API_BASE_URL"`
	GatewayTimeout  time.Duration `mapstructure:"GATEWAY_TIMEOUT"`
	AreaCode        string        `mapstructure:"AREA_CODE"`
	StaticOTP       string        `mapstructure:"STATIC_OTP"`
	DeviceType      string        `mapstructure:"DEVICE_TYPE"`
	AppVersion      string        `mapstructure:"APP_VERSION"`

	// Wizard sessions.
	SessionStore string        `mapstructure:"SESSION_STORE"`
	SessionTTL   time.Duration `mapstructure:"SESSION_TTL"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("HEALTH_PORT", "8086")
	v.SetDefault("ENV", "development")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("TRUSTED_PROXIES", []string{})

	v.SetDefault("GUIDE_API_BASE_URL", "https://devazstg.astrokiran.com/auth/api/v1")
	v.SetDefault("GATEWAY_TIMEOUT", "0s")
	v.SetDefault("AREA_CODE", "+91")
	v.SetDefault("STATIC_OTP", "123456")
	v.SetDefault("DEVICE_TYPE", "mobile")
	v.SetDefault("APP_VERSION", "0.1.0")

	v.SetDefault("SESSION_STORE", "memory")
	v.SetDefault("SESSION_TTL", "30m")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_SESSION_DB", 3)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
