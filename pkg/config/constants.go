package config

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "CANCELFLOW_APP_ENV"
	EnvPort     = "CANCELFLOW_APP_PORT"
	EnvRedisURL = "CANCELFLOW_REDIS_URL"

	EnvDBDSN  = "CANCELFLOW_DB_DSN"
	EnvDBHost = "CANCELFLOW_DB_HOST"
	EnvDBUser = "CANCELFLOW_DB_USER"
	EnvDBName = "CANCELFLOW_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
