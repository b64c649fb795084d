package cmd

import (
	"database/sql"
	"time"

	log "github.com/sirupsen/logrus"

	"staking/domain/config"
	"staking/domain/derive"
	"staking/infrastructure/boltstore"
	"staking/infrastructure/dbhandler"
	"staking/interface/repository"
	"staking/usecase"
)

func defaultDependencyInject() {
	var err error

	switch config.GetStore() {
	case config.StorePostgres:
		dbPool, err = sql.Open("postgres", config.GetDbUri())
		if err != nil {
			log.Fatal(err)
		}
		dbPool.SetMaxOpenConns(config.GetDbMaxOpenConns())
		dbPool.SetMaxIdleConns(5)
		dbPool.SetConnMaxIdleTime(1 * time.Minute)
		dbPool.SetConnMaxLifetime(4 * time.Hour)

		dbHandler := dbhandler.DBHandler{DB: dbPool}
		accountRepository = repository.NewAccountRepository(dbHandler)
		ledgerStore = accountRepository

	case config.StoreBolt:
		boltStore, err = boltstore.Open(config.GetBoltPath())
		if err != nil {
			log.Fatalf("Unable to open bolt store - %v\n", err.Error())
		}
		ledgerStore = boltStore

	default:
		log.Fatalf("Unknown store %q, expected %v or %v\n", config.GetStore(), config.StorePostgres, config.StoreBolt)
	}

	clock := usecase.SystemClock{}
	stakingInteractor = usecase.NewStakingInteractor(ledgerStore, clock, derive.New(config.GetStakingProgramId()))
	vestingInteractor = usecase.NewVestingInteractor(ledgerStore, clock, derive.New(config.GetVestingProgramId()))
	tokenInteractor = usecase.NewTokenInteractor(ledgerStore, clock)
	syncInteractor = usecase.NewSyncInteractor(stakingInteractor)
}

func closeDependencies() {
	if dbPool != nil {
		dbPool.Close()
	}
	if boltStore != nil {
		boltStore.Close()
	}
}

var dbPool *sql.DB
var boltStore *boltstore.BoltStore
var accountRepository *repository.AccountRepository
var ledgerStore usecase.Store
var stakingInteractor *usecase.StakingInteractor
var vestingInteractor *usecase.VestingInteractor
var tokenInteractor *usecase.TokenInteractor
var syncInteractor *usecase.SyncInteractor
