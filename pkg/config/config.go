package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Eventing     EventingConfig
	GCP          GCPConfig
	GCS          GCSConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Workflow     WorkflowConfig
	RateLimit    RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PPG_APP_ENV" required:"true"`
	Port         string `envconfig:"PPG_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PPG_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PPG_LOG_WARN_STACK" default:"false"`

	CORSAllowedOrigins []string `envconfig:"PPG_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PPG_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PPG_DB_DSN"`
	Driver string `envconfig:"PPG_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PPG_DB_HOST"`
	Port     int    `envconfig:"PPG_DB_PORT" default:"5432"`
	User     string `envconfig:"PPG_DB_USER"`
	Password string `envconfig:"PPG_DB_PASSWORD"`
	Name     string `envconfig:"PPG_DB_NAME"`
	SSLMode  string `envconfig:"PPG_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PPG_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PPG_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PPG_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PPG_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"PPG_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PPG_REDIS_ADDR"`
	Password     string        `envconfig:"PPG_REDIS_PASSWORD"`
	DB           int           `envconfig:"PPG_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PPG_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PPG_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PPG_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PPG_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PPG_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PPG_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PPG_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PPG_JWT_EXPIRATION_MINUTES" required:"true"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	AutoMigrate         bool `envconfig:"PPG_AUTO_MIGRATE" default:"false"`
	EnforceIdempotency  bool `envconfig:"PPG_ENFORCE_IDEMPOTENCY" default:"true"`
	RequireSessionCheck bool `envconfig:"PPG_REQUIRE_SESSION_CHECK" default:"false"`
	VerifyFileAssets    bool `envconfig:"PPG_VERIFY_FILE_ASSETS" default:"false"`
}

type EventingConfig struct {
	IdempotencyTTL time.Duration `envconfig:"PPG_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PPG_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"PPG_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PPG_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"PPG_GCS_BUCKET_NAME"`
}

type PubSubConfig struct {
	WorkflowTopic string `envconfig:"PPG_PUBSUB_WORKFLOW_TOPIC" default:"ppg-workflow-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"PPG_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"PPG_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"PPG_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type WorkflowConfig struct {
	MetricsNamespace string `envconfig:"PPG_WORKFLOW_METRICS_NAMESPACE" default:"ppg"`
}

type RateLimitConfig struct {
	WriteLimit  int64         `envconfig:"PPG_RATE_LIMIT_WRITES" default:"60"`
	WriteWindow time.Duration `envconfig:"PPG_RATE_LIMIT_WINDOW" default:"1m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	discreteValues := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if discreteValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
