package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/currency"
)

// Drivers soportados para el almacenamiento persistente del cliente.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config agrupa la configuración del cliente (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App   AppConfig
	API   APIConfig
	Store StoreConfig
	HTTP  HTTPConfig
	JWT   JWTConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	Currency currency.Unit // moneda de visualización de totales
}

// APIConfig ubicación del API Gateway de la tienda.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StoreConfig configuración del almacenamiento persistente (token, usuario, carrito).
type StoreConfig struct {
	Driver    string // memory, file, redis, postgres
	Dir       string // driver file: directorio de estado
	KeyPrefix string // prefijo de claves (redis/postgres), permite varios clientes en el mismo backend
	Redis     RedisConfig
	DB        DBConfig
}

// RedisConfig conexión a Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
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

// JWTConfig solo para generar tokens de desarrollo (el cliente nunca valida firmas).
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración de la API local que consume la UI.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, API_BASE_URL, STORE_DRIVER, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cur, err := currency.ParseISO(getString(v, "APP_CURRENCY", "USD"))
	if err != nil {
		return nil, fmt.Errorf("APP_CURRENCY inválida: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "storefront-client"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			Currency: cur,
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getString(v, "API_BASE_URL", "http://localhost:8080"), "/"),
			Timeout: time.Duration(getInt(v, "API_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Store: StoreConfig{
			Driver:    strings.ToLower(getString(v, "STORE_DRIVER", StoreFile)),
			Dir:       getString(v, "STORE_DIR", ".storefront"),
			KeyPrefix: getString(v, "STORE_KEY_PREFIX", ""),
			Redis: RedisConfig{
				Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
				Password: getString(v, "REDIS_PASSWORD", ""),
				DB:       getInt(v, "REDIS_DB", 0),
			},
			DB: DBConfig{
				DatabaseURL: getString(v, "DATABASE_URL", ""),
				Host:        getString(v, "DB_HOST", "localhost"),
				Port:        getInt(v, "DB_PORT", 5432),
				User:        getString(v, "DB_USER", "postgres"),
				Password:    getString(v, "DB_PASSWORD", ""),
				DBName:      getString(v, "DB_NAME", "storefront"),
				SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			},
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "HTTP_PORT", 4200),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "storefront-dev"),
		},
	}

	switch cfg.Store.Driver {
	case StoreMemory, StoreFile, StoreRedis, StorePostgres:
	default:
		return nil, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Store.Driver)
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
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
