package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa a configuração da aplicação (lida via Viper de env e, opcionalmente, arquivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Conversor ConversorConfig
	Security  SecurityConfig
}

// AppConfig configuração geral.
type AppConfig struct {
	Env            string // development, staging, production
	Name           string
	LogLevel       string
	MigrateOnStart bool
}

// DBConfig configuração do PostgreSQL.
// Se DatabaseURL não estiver vazio, é usado como connection string completa.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devolve DATABASE_URL se definido; senão o DSN montado.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN monta a connection string com URL encoding para caracteres especiais na senha.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuração de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuração do servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devolve host:port.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig conexão Redis. Addr vazio desliga Redis (lockout em memória, conversão síncrona).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled indica se Redis foi configurado.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// StorageConfig armazenamento de arquivos do conversor.
type StorageConfig struct {
	Driver       string // local | s3
	LocalDir     string
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// ConversorConfig limites e binários externos.
type ConversorConfig struct {
	MaxUploadMB    int
	TimeoutSeconds int
	Workers        int
	SofficeBin     string
	PdftoppmBin    string
}

// MaxUploadBytes limite total de upload por job.
func (c ConversorConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

// Timeout duração máxima de um comando externo.
func (c ConversorConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SecurityConfig política de login.
type SecurityConfig struct {
	LoginMaxAttempts int
	LoginLockMinutes int
}

// Load lê a configuração de variáveis de ambiente (e opcionalmente de arquivo).
// Env vars têm prioridade. Nomes esperados: APP_ENV, DB_HOST, JWT_SECRET, REDIS_ADDR etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ausente é ok

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:            getString(v, "APP_ENV", "development"),
			Name:           getString(v, "APP_NAME", "gepub-api"),
			LogLevel:       getString(v, "LOG_LEVEL", "info"),
			MigrateOnStart: getBool(v, "MIGRATE_ON_START", false),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "gepub"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "gepub"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Driver:       getString(v, "STORAGE_DRIVER", "local"),
			LocalDir:     getString(v, "STORAGE_LOCAL_DIR", "./media"),
			Bucket:       getString(v, "S3_BUCKET", ""),
			Region:       getString(v, "S3_REGION", "us-east-1"),
			Endpoint:     getString(v, "S3_ENDPOINT", ""),
			AccessKey:    getString(v, "S3_ACCESS_KEY", ""),
			SecretKey:    getString(v, "S3_SECRET_KEY", ""),
			UsePathStyle: getBool(v, "S3_USE_PATH_STYLE", true),
		},
		Conversor: ConversorConfig{
			MaxUploadMB:    getInt(v, "CONVERSOR_MAX_UPLOAD_MB", 80),
			TimeoutSeconds: getInt(v, "CONVERSOR_TIMEOUT_SECONDS", 180),
			Workers:        getInt(v, "CONVERSOR_WORKERS", 2),
			SofficeBin:     getString(v, "SOFFICE_BIN", "soffice"),
			PdftoppmBin:    getString(v, "PDFTOPPM_BIN", "pdftoppm"),
		},
		Security: SecurityConfig{
			LoginMaxAttempts: getInt(v, "LOGIN_MAX_ATTEMPTS", 5),
			LoginLockMinutes: getInt(v, "LOGIN_LOCK_MINUTES", 10),
		},
	}

	if cfg.App.Env == "production" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET obrigatório em produção")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return n
	default:
		return v.GetInt(key)
	}
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	default:
		return v.GetBool(key)
	}
}
