package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/fixbroin/wecanfix-backend/pkg/db"
	catalogDB "github.com/fixbroin/wecanfix-backend/pkg/db/catalog"
	marketingDB "github.com/fixbroin/wecanfix-backend/pkg/db/marketing"
	storefrontDB "github.com/fixbroin/wecanfix-backend/pkg/db/storefront"
	"github.com/fixbroin/wecanfix-backend/pkg/utils"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_AUTOMATION_TRIGGER_SECRET = "AUTOMATION_TRIGGER_SECRET"

	ENV_STOREFRONT_DB_USERNAME = "STOREFRONT_DB_USERNAME"
	ENV_STOREFRONT_DB_PASSWORD = "STOREFRONT_DB_PASSWORD"
	ENV_CATALOG_DB_USERNAME    = "CATALOG_DB_USERNAME"
	ENV_CATALOG_DB_PASSWORD    = "CATALOG_DB_PASSWORD"
	ENV_MARKETING_DB_USERNAME  = "MARKETING_DB_USERNAME"
	ENV_MARKETING_DB_PASSWORD  = "MARKETING_DB_PASSWORD"
)

type config struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
		Port         string   `json:"port" yaml:"port"`
	} `json:"gin_config" yaml:"gin_config"`

	// Shared secret the scheduler must present on the trigger endpoint
	TriggerSecret string `json:"trigger_secret" yaml:"trigger_secret"`

	// DB configs
	DBConfigs struct {
		StorefrontDB db.DBConfigYaml `json:"storefront_db" yaml:"storefront_db"`
		CatalogDB    db.DBConfigYaml `json:"catalog_db" yaml:"catalog_db"`
		MarketingDB  db.DBConfigYaml `json:"marketing_db" yaml:"marketing_db"`
	} `json:"db_configs" yaml:"db_configs"`

	Intervals struct {
		DispatchTimeout time.Duration `json:"dispatch_timeout" yaml:"dispatch_timeout"`
		RunLockTTL      time.Duration `json:"run_lock_ttl" yaml:"run_lock_ttl"`
	} `json:"intervals" yaml:"intervals"`
}

var conf config

var (
	storefrontDBService *storefrontDB.StorefrontDBService
	catalogDBService    *catalogDB.CatalogDBService
	marketingDBService  *marketingDB.MarketingDBService
)

func init() {
	_ = godotenv.Load()

	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}

	// Init logger:
	utils.InitLogger(
		conf.Logging.LogLevel,
		conf.Logging.IncludeSrc,
		conf.Logging.LogToFile,
		conf.Logging.Filename,
		conf.Logging.MaxSize,
		conf.Logging.MaxAge,
		conf.Logging.MaxBackups,
		conf.Logging.CompressOldLogs,
	)

	// Override secrets from environment variables
	secretsOverride()

	if !conf.GinConfig.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// init db
	initDBs()
}

func secretsOverride() {
	if secret := os.Getenv(ENV_AUTOMATION_TRIGGER_SECRET); secret != "" {
		conf.TriggerSecret = secret
	}

	if dbUsername := os.Getenv(ENV_STOREFRONT_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.StorefrontDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_STOREFRONT_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.StorefrontDB.Password = dbPassword
	}

	if dbUsername := os.Getenv(ENV_CATALOG_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.CatalogDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_CATALOG_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.CatalogDB.Password = dbPassword
	}

	if dbUsername := os.Getenv(ENV_MARKETING_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.MarketingDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_MARKETING_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.MarketingDB.Password = dbPassword
	}
}

func initDBs() {
	var err error
	storefrontDBService, err = storefrontDB.NewStorefrontDBService(db.DBConfigFromYamlObj(conf.DBConfigs.StorefrontDB))
	if err != nil {
		slog.Error("Error connecting to Storefront DB", slog.String("error", err.Error()))
		panic(err)
	}

	catalogDBService, err = catalogDB.NewCatalogDBService(db.DBConfigFromYamlObj(conf.DBConfigs.CatalogDB))
	if err != nil {
		slog.Error("Error connecting to Catalog DB", slog.String("error", err.Error()))
		panic(err)
	}

	marketingDBService, err = marketingDB.NewMarketingDBService(db.DBConfigFromYamlObj(conf.DBConfigs.MarketingDB))
	if err != nil {
		slog.Error("Error connecting to Marketing DB", slog.String("error", err.Error()))
		panic(err)
	}
}
