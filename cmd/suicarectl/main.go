// suicarectl 运维命令行：校验配置、查看链上活动、手动索引事件
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/xyrille1/SuiCare/internal/config"
	"github.com/xyrille1/SuiCare/internal/ledger"
	"github.com/xyrille1/SuiCare/internal/logger"
)

var (
	configPath string
	timeout    time.Duration
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "suicarectl",
	Short:         "Operate a SuiCare deployment",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		return logger.Init(config.LogConfig{Level: level, Output: "stderr"})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./config.yaml, ./config/config.yaml, /etc/suicare)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(campaignsCmd)
	rootCmd.AddCommand(activityCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// session 一次命令执行所需的配置与连接
type session struct {
	cfg    *config.Config
	client *ledger.RPCClient
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}
	client, err := ledger.Dial(ctx, cfg.Sui.RPCEndpoint())
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, client: client}, nil
}

func (s *session) Close() {
	s.client.Close()
}
