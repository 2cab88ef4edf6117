package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"StockGym/internal/agent"
	"StockGym/internal/config"
	"StockGym/internal/env"
	"StockGym/internal/marketdata"
	"StockGym/internal/recorder"
	"StockGym/internal/scheduler"
)

var cfgPath string

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	rootCmd := &cobra.Command{
		Use:   "gym",
		Short: "Simulated stock-trading environment over historical data",
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "configs/config.yaml", "config file path")
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration, the historical store, and the configured
// recorder sinks, and builds the environment.
func setup() (*config.Config, *env.Env, recorder.Recorder, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("config validation: %w", err)
	}

	store, err := marketdata.Open(cfg.Database.SQLitePath, cfg.Database.TemplateCSV)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load historical data: %w", err)
	}

	var sinks recorder.Multi
	if cfg.Recorder.HistoryDir != "" {
		fr, err := recorder.NewFileRecorder(cfg.Recorder.HistoryDir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("init file recorder: %w", err)
		}
		log.Printf("[INFO] recording episode history to %s", fr.RunDir())
		sinks = append(sinks, fr)
	}
	if cfg.Recorder.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Recorder.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, skipping: %v", err)
		} else {
			sinks = append(sinks, sr)
		}
	}

	var rec recorder.Recorder = sinks
	if len(sinks) == 0 {
		rec = recorder.NewNoopRecorder()
	}

	e, err := env.New(cfg, store, rec)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init environment: %w", err)
	}
	return cfg, e, rec, nil
}

func runCmd() *cobra.Command {
	var episodes int
	var policyName string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run benchmark episodes now and print the summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, e, rec, err := setup()
			if err != nil {
				return err
			}
			defer rec.Close()

			if policyName == "" {
				policyName = cfg.Benchmark.Policy
			}
			policy, err := agent.New(policyName, cfg.Simulation.Seed)
			if err != nil {
				return err
			}

			sched := scheduler.NewScheduler(cmd.Context(), e, policy)
			for i := 0; i < episodes; i++ {
				sched.RunNow()
				summary := e.Summary()
				out, err := json.MarshalIndent(summary, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&episodes, "episodes", "n", 1, "number of episodes to run")
	cmd.Flags().StringVarP(&policyName, "policy", "p", "", "baseline policy (hold, random, momentum)")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run benchmark episodes on the configured cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, e, rec, err := setup()
			if err != nil {
				return err
			}
			defer rec.Close()

			policy, err := agent.New(cfg.Benchmark.Policy, cfg.Simulation.Seed)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sched := scheduler.NewScheduler(ctx, e, policy)
			if err := sched.Register(cfg.Benchmark.Cron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if os.Getenv("RUN_ON_START") == "true" {
				log.Println("[INFO] RUN_ON_START enabled, executing benchmark now")
				go sched.RunNow()
			}

			log.Println("[INFO] StockGym is running. Press Ctrl+C to stop.")
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			log.Println("[INFO] shutdown signal received, stopping...")
			cancel()
			return nil
		},
	}
}
