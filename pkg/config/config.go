package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App     AppConfig
	Claims  ClaimsConfig
	Clients ClientsConfig
	Sheets  SheetsConfig
	Cache   CacheConfig
	Redis   RedisConfig
	Report  ReportConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var err error
	if len(c.Clients.Entries) == 0 {
		err = multierr.Append(err, fmt.Errorf("%s must declare at least one client", EnvClients))
	}
	for _, entry := range c.Clients.Entries {
		err = multierr.Append(err, entry.validate())
	}
	if c.Cache.Backend == CacheBackendRedis && c.Redis.URL == "" && c.Redis.Address == "" {
		err = multierr.Append(err, fmt.Errorf("%s or %s is required for the redis cache backend", EnvRedisURL, EnvRedisAddr))
	}
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

type AppConfig struct {
	Env          string   `envconfig:"ROUTESREPORT_APP_ENV" default:"dev"`
	Port         string   `envconfig:"ROUTESREPORT_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"ROUTESREPORT_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"ROUTESREPORT_LOG_WARN_STACK" default:"false"`
	// CORSOrigins lists the dashboard origins allowed to call the API.
	CORSOrigins  []string `envconfig:"ROUTESREPORT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ClaimsConfig points at the claims listing endpoint of the logistics API.
type ClaimsConfig struct {
	URL      string        `envconfig:"ROUTESREPORT_CLAIMS_API_URL" required:"true"`
	PageSize int           `envconfig:"ROUTESREPORT_CLAIMS_PAGE_SIZE" default:"1000"`
	Timeout  time.Duration `envconfig:"ROUTESREPORT_CLAIMS_TIMEOUT" default:"0s"`
	Language string        `envconfig:"ROUTESREPORT_CLAIMS_LANGUAGE" default:"en"`
}

type ClientsConfig struct {
	Entries ClientEntries `envconfig:"ROUTESREPORT_CLIENTS" required:"true"`
}

// Lookup returns the client entry registered under name.
func (c ClientsConfig) Lookup(name string) (ClientEntry, bool) {
	for _, entry := range c.Entries {
		if strings.EqualFold(entry.Name, strings.TrimSpace(name)) {
			return entry, true
		}
	}
	return ClientEntry{}, false
}

// Names lists the configured client names in declaration order.
func (c ClientsConfig) Names() []string {
	names := make([]string, 0, len(c.Entries))
	for _, entry := range c.Entries {
		names = append(names, entry.Name)
	}
	return names
}

type SheetsConfig struct {
	APIKey          string `envconfig:"ROUTESREPORT_SHEETS_API_KEY"`
	CredentialsJSON string `envconfig:"ROUTESREPORT_SHEETS_CREDENTIALS_JSON"`
	CredentialsFile string `envconfig:"ROUTESREPORT_GOOGLE_APPLICATION_CREDENTIALS"`
	PODSpreadsheet  string `envconfig:"ROUTESREPORT_POD_SPREADSHEET_ID" required:"true"`
	PODRange        string `envconfig:"ROUTESREPORT_POD_RANGE" default:"A:A"`
}

type CacheConfig struct {
	Backend string        `envconfig:"ROUTESREPORT_CACHE_BACKEND" default:"memory"`
	TTL     time.Duration `envconfig:"ROUTESREPORT_CACHE_TTL" default:"0s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ROUTESREPORT_REDIS_URL"`
	Address      string        `envconfig:"ROUTESREPORT_REDIS_ADDR"`
	Password     string        `envconfig:"ROUTESREPORT_REDIS_PASSWORD"`
	DB           int           `envconfig:"ROUTESREPORT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ROUTESREPORT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ROUTESREPORT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ROUTESREPORT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ROUTESREPORT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ROUTESREPORT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type ReportConfig struct {
	LookbackDays            int      `envconfig:"ROUTESREPORT_REPORT_LOOKBACK_DAYS" default:"3"`
	MonthlyFrom             string   `envconfig:"ROUTESREPORT_REPORT_MONTHLY_FROM"`
	MonthlyTo               string   `envconfig:"ROUTESREPORT_REPORT_MONTHLY_TO"`
	UntakenExcludedStatuses []string `envconfig:"ROUTESREPORT_REPORT_UNTAKEN_EXCLUDED_STATUSES" default:"cancelled,performer_not_found,failed"`
}
