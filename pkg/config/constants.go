package config

// EnvPrefix is applied by envconfig to every variable lookup.
const EnvPrefix = "metalbaza"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "METALBAZA_DB_DSN"
	EnvDBHost = "METALBAZA_DB_HOST"
	EnvDBUser = "METALBAZA_DB_USER"
	EnvDBName = "METALBAZA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
