/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"staking/domain/config"
	"staking/interface/exporter"
)

var quit = make(chan bool)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Starts the ledger's periodic tasks",
	Long: `Starts the ledger's periodic tasks: every sync_interval the pending rewards
of all stake pools are distributed. Metrics are served on metrics_addr.
To stop it, send SIGINT or SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		log.Info("start called.")

		defaultDependencyInject()
		defer closeDependencies()

		exporter.Init()
		server := &http.Server{Addr: config.GetMetricsAddr(), Handler: promhttp.Handler()}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorf("🔴 serving metrics - %v", err)
			}
		}()

		syncTicker := schedule(syncPools, config.GetSyncInterval(), quit)

		signal.Ignore()
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		s := <-stop
		log.Printf("Got signal '%v', stopping", s)

		syncTicker.Stop()
		close(quit)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	},
}

func schedule(task func(), interval time.Duration, done chan bool) *time.Ticker {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {

			case <-ticker.C:
				ticker.Stop()
				task()
				ticker.Reset(interval)

			case <-done:
				return
			}
		}
	}()
	return ticker
}

func syncPools() {
	ctx, cancel := context.WithTimeout(context.Background(), config.GetSyncInterval())
	defer cancel()

	synced, err := syncInteractor.SyncAll(ctx)
	if err != nil {
		log.Errorf("❌ Failed to sync stake pools - %v", err.Error())
		return
	}
	if synced > 0 {
		log.Infof("🔵 distributed rewards of %v stake pools", synced)
	}
}

func init() {
	rootCmd.AddCommand(startCmd)
}
