package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	AWS    AWSConfig
	Engine EngineConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port     int
	RunLocal bool
}

type AWSConfig struct {
	Region                string
	EntityTable           string
	ReconcileTable        string
	OrderNotificationsURL string
	StockUpdatesURL       string
	StockReconcileURL     string
	MetricsNamespace      string
}

type EngineConfig struct {
	StrictTransitions  bool
	AtomicStockUpdates bool
	StoreTimeout       time.Duration
	NotifyTimeout      time.Duration
	ReconcileTTL       time.Duration
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("RUN_LOCAL", false)
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("ENTITY_TABLE", "retail-entities")
	viper.SetDefault("RECONCILE_TABLE", "stock-reconcile")
	viper.SetDefault("ORDER_NOTIFICATIONS_QUEUE_URL", "")
	viper.SetDefault("STOCK_UPDATES_QUEUE_URL", "")
	viper.SetDefault("STOCK_RECONCILE_QUEUE_URL", "")
	viper.SetDefault("METRICS_NAMESPACE", "OrderFlow")
	viper.SetDefault("STRICT_TRANSITIONS", false)
	viper.SetDefault("ATOMIC_STOCK_UPDATES", false)
	viper.SetDefault("STORE_TIMEOUT", "5s")
	viper.SetDefault("NOTIFY_TIMEOUT", "3s")
	viper.SetDefault("RECONCILE_TTL", "48h")
	viper.SetDefault("LOG_LEVEL", "info")

	storeTimeout, err := time.ParseDuration(viper.GetString("STORE_TIMEOUT"))
	if err != nil {
		return nil, err
	}
	notifyTimeout, err := time.ParseDuration(viper.GetString("NOTIFY_TIMEOUT"))
	if err != nil {
		return nil, err
	}
	reconcileTTL, err := time.ParseDuration(viper.GetString("RECONCILE_TTL"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     viper.GetInt("SERVER_PORT"),
			RunLocal: viper.GetBool("RUN_LOCAL"),
		},
		AWS: AWSConfig{
			Region:                viper.GetString("AWS_REGION"),
			EntityTable:           viper.GetString("ENTITY_TABLE"),
			ReconcileTable:        viper.GetString("RECONCILE_TABLE"),
			OrderNotificationsURL: viper.GetString("ORDER_NOTIFICATIONS_QUEUE_URL"),
			StockUpdatesURL:       viper.GetString("STOCK_UPDATES_QUEUE_URL"),
			StockReconcileURL:     viper.GetString("STOCK_RECONCILE_QUEUE_URL"),
			MetricsNamespace:      viper.GetString("METRICS_NAMESPACE"),
		},
		Engine: EngineConfig{
			StrictTransitions:  viper.GetBool("STRICT_TRANSITIONS"),
			AtomicStockUpdates: viper.GetBool("ATOMIC_STOCK_UPDATES"),
			StoreTimeout:       storeTimeout,
			NotifyTimeout:      notifyTimeout,
			ReconcileTTL:       reconcileTTL,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	return cfg, nil
}
