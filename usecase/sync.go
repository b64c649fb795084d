package usecase

import (
	"context"

	"github.com/sirupsen/logrus"
)

// SyncInteractor distributes pending rewards of every stake pool.
type SyncInteractor struct {
	stakingInteractor *StakingInteractor
}

func NewSyncInteractor(stakingInteractor *StakingInteractor) *SyncInteractor {
	return &SyncInteractor{stakingInteractor: stakingInteractor}
}

// SyncAll syncs every pool whose distribution account holds tokens and returns
// how many were synced. A pool that fails is logged and skipped.
func (interactor *SyncInteractor) SyncAll(ctx context.Context) (int, error) {
	pools, err := interactor.stakingInteractor.ListStakePools(ctx)
	if err != nil {
		log.Printf("🔴 loading stake pools - %v", err)
		return 0, err
	}

	synced := 0
	for _, pool := range pools {
		if err := ctx.Err(); err != nil {
			return synced, err
		}

		snapshot, err := interactor.stakingInteractor.PoolSnapshot(ctx, pool)
		if err != nil {
			log.WithField("pool", pool).Errorf("🔴 reading pool - %v", err)
			continue
		}
		if snapshot.DistributionBalance == 0 {
			continue
		}

		receipt, err := interactor.stakingInteractor.SyncStakePool(ctx, pool)
		if err != nil {
			log.WithField("pool", pool).Errorf("🔴 syncing pool - %v", err)
			continue
		}
		log.WithFields(logrus.Fields{
			"pool":     pool,
			"operator": receipt.Rewards.Operator,
			"stakers":  receipt.Rewards.Stakers,
		}).Info("🔵 distributed rewards")
		synced++
	}
	return synced, nil
}
