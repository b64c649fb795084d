package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testStakingProgramId = solana.StakeProgramID
	testVestingProgramId = solana.VoteProgramID
)

func setValid(t *testing.T) {
	t.Helper()
	viper.Set("store", "bolt")
	viper.Set("bolt_path", "data/staking.db")
	viper.Set("service_db_uri", "")
	viper.Set("db_max_open_conns", 20)
	viper.Set("staking_program_id", testStakingProgramId.String())
	viper.Set("vesting_program_id", testVestingProgramId.String())
	viper.Set("sync_interval", "1m")
	viper.Set("metrics_addr", ":9090")
	viper.Set("log_level", "info")
}

func TestInitializeVariables(t *testing.T) {
	setValid(t)
	require.NoError(t, initializeVariables())

	assert.Equal(t, StoreBolt, GetStore())
	assert.Equal(t, "data/staking.db", GetBoltPath())
	assert.Equal(t, 20, GetDbMaxOpenConns())
	assert.Equal(t, testStakingProgramId, GetStakingProgramId())
	assert.Equal(t, testVestingProgramId, GetVestingProgramId())
	assert.Equal(t, time.Minute, GetSyncInterval())
	assert.Equal(t, ":9090", GetMetricsAddr())
	assert.Equal(t, log.InfoLevel, GetLogLevel())
}

func TestInitializeVariables_Postgres(t *testing.T) {
	setValid(t)
	viper.Set("store", " Postgres ")
	viper.Set("service_db_uri", "postgres://staking@localhost:5432/staking//")
	require.NoError(t, initializeVariables())

	assert.Equal(t, StorePostgres, GetStore())
	assert.Equal(t, "postgres://staking@localhost:5432/staking", GetDbUri())

	viper.Set("service_db_uri", "")
	assert.Equal(t, ErrorNoDbUri, initializeVariables())
}

func TestInitializeVariables_Errors(t *testing.T) {
	tests := []struct {
		key   string
		value interface{}
		err   error
	}{
		{"store", "redis", ErrorInvalidStore},
		{"bolt_path", " ", ErrorNoBoltPath},
		{"db_max_open_conns", 0, ErrorInvalidDbMaxConns},
		{"staking_program_id", "not-a-key", ErrorInvalidStakingProgramId},
		{"vesting_program_id", "", ErrorInvalidVestingProgramId},
		{"sync_interval", "soon", ErrorInvalidSyncInterval},
		{"sync_interval", "-1s", ErrorInvalidSyncInterval},
		{"log_level", "loud", ErrorInvalidLogLevel},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			setValid(t)
			viper.Set(tt.key, tt.value)
			assert.Equal(t, tt.err, initializeVariables())
		})
	}
}

func TestReadConfig(t *testing.T) {
	viper.Reset()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`store: bolt
bolt_path: /var/lib/staking/ledger.db
db_max_open_conns: 4
staking_program_id: ` + testStakingProgramId.String() + `
vesting_program_id: ` + testVestingProgramId.String() + `
sync_interval: 30s
log_level: debug
`)
	require.NoError(t, os.WriteFile(path, content, 0600))

	require.NoError(t, ReadConfig(path))
	assert.Equal(t, "/var/lib/staking/ledger.db", GetBoltPath())
	assert.Equal(t, 30*time.Second, GetSyncInterval())
	assert.Equal(t, 4, GetDbMaxOpenConns())
	assert.Equal(t, testVestingProgramId, GetVestingProgramId())
	assert.Equal(t, log.DebugLevel, GetLogLevel())
}
