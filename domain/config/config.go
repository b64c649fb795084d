package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	StorePostgres = "postgres"
	StoreBolt     = "bolt"
)

var (
	ErrorInvalidStore = fmt.Errorf("store must be equal to 'postgres' or 'bolt' only")
	ErrorNoDbUri      = fmt.Errorf("no service_db_uri is defined for the postgres store")
	ErrorNoBoltPath   = fmt.Errorf("no bolt_path is defined for the bolt store")

	ErrorInvalidStakingProgramId = fmt.Errorf("invalid staking program id")
	ErrorInvalidVestingProgramId = fmt.Errorf("invalid vesting program id")

	ErrorInvalidSyncInterval = fmt.Errorf("invalid time interval for sync process")
	ErrorInvalidLogLevel     = fmt.Errorf("invalid log level")
	ErrorInvalidDbMaxConns   = fmt.Errorf("db_max_open_conns must be positive")
)

var (
	TrailingSlashRE = regexp.MustCompile("/+$")
)

var (
	store    string
	dbUri    string
	boltPath string

	dbMaxOpenConns int

	stakingProgramId solana.PublicKey
	vestingProgramId solana.PublicKey

	syncInterval time.Duration
	metricsAddr  string
	logLevel     log.Level
)

func init() {
	viper.SetDefault("store", StoreBolt)
	viper.SetDefault("bolt_path", "staking.db")
	viper.SetDefault("db_max_open_conns", 20)
	viper.SetDefault("sync_interval", "1m")
	viper.SetDefault("metrics_addr", ":9090")
	viper.SetDefault("log_level", "info")
}

func ReadConfig(filePath string) error {
	if filePath != "" {
		viper.SetConfigFile(filePath)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("staking")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warnf("⚠️ Failed reading config file: %v", err.Error())
	}

	return initializeVariables()
}

// This method processes the configuration parameters and keeps the processed values
// in some variables for later accesses rapidly.
func initializeVariables() error {
	var err error

	// Store stuff
	store = strings.TrimSpace(strings.ToLower(viper.GetString("store")))
	switch store {
	case StorePostgres:
		dbUri = TrailingSlashRE.ReplaceAllString(viper.GetString("service_db_uri"), "")
		if dbUri == "" {
			return ErrorNoDbUri
		}
	case StoreBolt:
		boltPath = strings.TrimSpace(viper.GetString("bolt_path"))
		if boltPath == "" {
			return ErrorNoBoltPath
		}
	default:
		return ErrorInvalidStore
	}

	dbMaxOpenConns = viper.GetInt("db_max_open_conns")
	if dbMaxOpenConns <= 0 {
		return ErrorInvalidDbMaxConns
	}

	// Program stuff
	stakingProgramId, err = solana.PublicKeyFromBase58(strings.TrimSpace(viper.GetString("staking_program_id")))
	if err != nil {
		return ErrorInvalidStakingProgramId
	}
	vestingProgramId, err = solana.PublicKeyFromBase58(strings.TrimSpace(viper.GetString("vesting_program_id")))
	if err != nil {
		return ErrorInvalidVestingProgramId
	}

	//---------------------------------------------------------------
	// sync interval
	strValue := viper.GetString("sync_interval")
	syncInterval, err = time.ParseDuration(strValue)
	if err != nil || syncInterval <= 0 {
		return ErrorInvalidSyncInterval
	}

	metricsAddr = strings.TrimSpace(viper.GetString("metrics_addr"))

	logLevel, err = log.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		return ErrorInvalidLogLevel
	}

	return nil
}

//-------------------------------------------------------------------
// Normal configuration values

func GetStore() string {
	return store
}

func GetDbUri() string {
	return dbUri
}

func GetBoltPath() string {
	return boltPath
}

func GetDbMaxOpenConns() int {
	return dbMaxOpenConns
}

func GetStakingProgramId() solana.PublicKey {
	return stakingProgramId
}

func GetVestingProgramId() solana.PublicKey {
	return vestingProgramId
}

func GetSyncInterval() time.Duration {
	return syncInterval
}

func GetMetricsAddr() string {
	return metricsAddr
}

func GetLogLevel() log.Level {
	return logLevel
}
