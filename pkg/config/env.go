package config

const (
	EnvPrefix = "PPG"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "PPG_APP_ENV"
	EnvPort     = "PPG_APP_PORT"
	EnvDBDSN    = "PPG_DB_DSN"
	EnvDBHost   = "PPG_DB_HOST"
	EnvDBUser   = "PPG_DB_USER"
	EnvDBName   = "PPG_DB_NAME"
	EnvDBDriver = "PPG_DB_DRIVER"

	EnvRedisURL     = "PPG_REDIS_URL"
	EnvJWTSecret    = "PPG_JWT_SECRET"
	EnvJWTIssuer    = "PPG_JWT_ISSUER"
	EnvJWTExpMins   = "PPG_JWT_EXPIRATION_MINUTES"
	EnvGCPProjectID = "PPG_GCP_PROJECT_ID"
	EnvGCSBucket    = "PPG_GCS_BUCKET_NAME"

	EnvPubSubWorkflowTopic = "PPG_PUBSUB_WORKFLOW_TOPIC"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
