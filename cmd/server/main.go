package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xyrille1/SuiCare/internal/config"
	"github.com/xyrille1/SuiCare/internal/database"
	"github.com/xyrille1/SuiCare/internal/handler"
	"github.com/xyrille1/SuiCare/internal/ledger"
	"github.com/xyrille1/SuiCare/internal/logger"
	"github.com/xyrille1/SuiCare/internal/logic"
	"github.com/xyrille1/SuiCare/internal/router"
	"github.com/xyrille1/SuiCare/internal/scheduler"
	"github.com/xyrille1/SuiCare/internal/wallet"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		var missing *config.MissingKeysError
		if errors.As(err, &missing) {
			fmt.Fprintln(os.Stderr, missing.Error())
			os.Exit(1)
		}
		logger.Fatal("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Log); err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 初始化Sui客户端
	client, err := ledger.Dial(ctx, cfg.Sui.RPCEndpoint())
	if err != nil {
		logger.Fatal("Failed to connect to Sui node: %v", err)
	}
	defer client.Close()
	logger.Info("Connected to Sui %s at %s", cfg.Sui.NetworkName(), client.Endpoint())

	var w wallet.Wallet = wallet.Disconnected{}
	if cfg.Sui.SignerKey != "" {
		kw, err := wallet.NewKeyWallet(cfg.Sui.SignerKey, client)
		if err != nil {
			logger.Fatal("Failed to load signer key: %v", err)
		}
		w = kw
		logger.Info("Signer wallet connected: %s", kw.Address())
	} else {
		logger.Warn("No signer key configured, mutations are disabled")
	}

	campaigns := logic.NewCampaignLogic(client, cfg.Sui.CampaignsID, cfg.Sui.NetworkName())
	transactions := logic.NewTransactionLogic(client, w, campaigns, logic.TransactionConfig{
		PackageID:    cfg.Sui.PackageID,
		Module:       cfg.Sui.Module,
		RegistryID:   cfg.Sui.CampaignsID,
		AdminAddress: cfg.Sui.AdminAddress,
		GasBudget:    cfg.Sui.GasBudget,
	})

	var generator logic.TextGenerator
	if cfg.AI.APIKey != "" {
		gemini, err := logic.NewGeminiGenerator(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			logger.Warn("Donation suggestions fall back to defaults: %v", err)
		} else {
			generator = gemini
		}
	}
	suggestions := logic.NewSuggestionLogic(generator)

	// 启动定时任务
	manager, err := scheduler.NewManager()
	if err != nil {
		logger.Fatal("Failed to create task manager: %v", err)
	}
	refreshEvery := time.Duration(cfg.Task.RefreshInterval) * time.Second
	if err := manager.Register(scheduler.NewCampaignRefreshJob(campaigns, refreshEvery)); err != nil {
		logger.Fatal("%v", err)
	}

	// 活动流依赖数据库，未启用时接口返回503
	activityHandler := handler.NewActivityHandler(nil)
	if cfg.Database.Enabled {
		db, err := database.Init(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to initialize database: %v", err)
		}
		activity := logic.NewActivityLogic(db, client, cfg.Sui.PackageID, cfg.Sui.Module)
		activityHandler = handler.NewActivityHandler(activity)

		indexEvery := time.Duration(cfg.Task.ActivityInterval) * time.Second
		if err := manager.Register(scheduler.NewActivityIndexJob(activity, indexEvery)); err != nil {
			logger.Fatal("%v", err)
		}
	}
	manager.Start()
	defer manager.Stop()

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	if cfg.Server.APIToken == "" {
		logger.Warn("No API token configured, mutating endpoints will reject every request")
	}
	r := router.Setup(handler.NewCampaignHandler(campaigns, transactions, suggestions), activityHandler, router.Options{
		APIToken:       cfg.Server.APIToken,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// 启动服务器
	go func() {
		logger.Info("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}
}
