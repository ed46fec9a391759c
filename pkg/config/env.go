package config

const (
	EnvPrefix = "ROUTESREPORT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"

	EnvAppEnv          = "ROUTESREPORT_APP_ENV"
	EnvPort            = "ROUTESREPORT_APP_PORT"
	EnvClaimsURL       = "ROUTESREPORT_CLAIMS_API_URL"
	EnvClaimsPageSize  = "ROUTESREPORT_CLAIMS_PAGE_SIZE"
	EnvClients         = "ROUTESREPORT_CLIENTS"
	EnvPODSpreadsheet  = "ROUTESREPORT_POD_SPREADSHEET_ID"
	EnvSheetsAPIKey    = "ROUTESREPORT_SHEETS_API_KEY"
	EnvCacheBackend    = "ROUTESREPORT_CACHE_BACKEND"
	EnvRedisURL        = "ROUTESREPORT_REDIS_URL"
	EnvRedisAddr       = "ROUTESREPORT_REDIS_ADDR"
	EnvReportLookback  = "ROUTESREPORT_REPORT_LOOKBACK_DAYS"
	EnvMonthlyFrom     = "ROUTESREPORT_REPORT_MONTHLY_FROM"
	EnvMonthlyTo       = "ROUTESREPORT_REPORT_MONTHLY_TO"
	EnvUntakenExcluded = "ROUTESREPORT_REPORT_UNTAKEN_EXCLUDED_STATUSES"
)
