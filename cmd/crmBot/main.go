package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"master_crm/internal/config"
	"master_crm/internal/repository/gormdb"
	"master_crm/internal/service/crm_sync"
	"master_crm/internal/service/flow"
	"master_crm/internal/service/home"
	"master_crm/internal/service/identity"
	"master_crm/internal/service/onboarding"
	"master_crm/internal/service/sheet"
	"master_crm/internal/service/tg"
	"master_crm/internal/service/token"
	"master_crm/internal/utils"
	pkg_config "master_crm/pkg/config"
	"master_crm/pkg/db"
	"master_crm/pkg/masker"
	"master_crm/pkg/tgbotapisfm"
	"master_crm/pkg/zaplogger"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	bootLogger, err := zaplogger.New("info")
	if err != nil {
		panic(err)
	}
	utils.HandleFatalError(pkg_config.LoadEnvFile(".env", bootLogger), bootLogger, "load .env")

	cfg := config.Config{}
	utils.HandleFatalError(pkg_config.LoadConfigs(&cfg), bootLogger, "load config")

	logger, err := zaplogger.New(cfg.LogConfig.Level)
	utils.HandleFatalError(err, bootLogger, "create logger")
	defer func() { _ = logger.Sync() }()

	if err := masker.LogConfigs(logger, &cfg); err != nil {
		logger.Fatal("error logging configs", zap.Error(err))
	}

	dbGorm, err := db.NewGormConnection(cfg.DBConfig)
	if err != nil {
		logger.Fatal("error creating gorm connection", zap.Error(err))
	}
	if err := gormdb.Migrate(dbGorm); err != nil {
		logger.Fatal("error migrating database", zap.Error(err))
	}
	repo := gormdb.NewIdentityRepository(dbGorm)

	// Выгрузка в таблицу необязательна
	var forceUpdate chan struct{}
	var syncer *crm_sync.Syncer
	if cfg.GoogleSheetConfig.Enabled() {
		sheetService, err := sheet.NewSheetService(
			cfg.GoogleSheetConfig.CredentialsBase64,
			cfg.GoogleSheetConfig.SheetID,
			cfg.GoogleSheetConfig.ClientListID,
			cfg.GoogleSheetConfig.PauseMs,
			sheet.NewDefaultColumnMap(),
		)
		if err != nil {
			logger.Fatal("error creating sheet service", zap.Error(err))
		}
		forceUpdate = make(chan struct{}, 1)
		syncer = crm_sync.NewSyncer(sheetService, repo, logger, forceUpdate, cfg.GoogleSheetConfig.SyncInterval)
	} else {
		logger.Info("google sheet export disabled")
	}

	// Имя клиентского бота станет известно после авторизации, если не задано явно
	var clientBot *tgbotapisfm.Bot
	clientUsername := func() string {
		if cfg.ClientBotConfig.ClientUsername != "" {
			return cfg.ClientBotConfig.ClientUsername
		}
		return clientBot.Username()
	}

	assembler := home.NewAssembler(repo, clientUsername, time.Now)
	masterFront := onboarding.NewMasterFront(
		flow.NewStore[flow.MasterDraft](cfg.FlowConfig.TTL),
		identity.NewRegistrar(repo, token.NewIssuer(), logger),
		assembler,
		logger,
	)
	clientFront := onboarding.NewClientFront(
		repo,
		flow.NewStore[flow.ClientDraft](cfg.FlowConfig.TTL),
		identity.NewReconciler(repo, logger),
		assembler,
		flow.BirthdayPolicy(cfg.FlowConfig.BirthdayPolicy),
		time.Now,
		forceUpdate,
		logger,
	)

	masterHandler := tg.NewMasterHandler(masterFront, cfg.FlowConfig.HandlerTimeout, logger)
	clientHandler := tg.NewClientHandler(clientFront, cfg.FlowConfig.HandlerTimeout, logger)

	clientBot, err = tgbotapisfm.NewBot(tgbotapisfm.Config{
		Token:           cfg.ClientBotConfig.ClientToken,
		Expiration:      cfg.FlowConfig.TTL,
		CleanupInterval: time.Hour,
		States:          clientHandler.StatesMap(),
		DefaultState:    tg.StateIdle,
	}, []int64{}, logger.Named("client_bot"))
	if err != nil {
		logger.Fatal("error creating client bot", zap.Error(err))
	}

	masterBot, err := tgbotapisfm.NewBot(tgbotapisfm.Config{
		Token:           cfg.MasterBotConfig.MasterToken,
		Expiration:      cfg.FlowConfig.TTL,
		CleanupInterval: time.Hour,
		States:          masterHandler.StatesMap(),
		DefaultState:    tg.StateIdle,
	}, []int64{}, logger.Named("master_bot"))
	if err != nil {
		logger.Fatal("error creating master bot", zap.Error(err))
	}

	if syncer != nil {
		syncer.Start()
		defer syncer.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	masterErr := masterBot.Start(0, 30)
	clientErr := clientBot.Start(0, 30)

	select {
	case err := <-masterErr:
		logger.Error("master bot stopped", zap.Error(err))
	case err := <-clientErr:
		logger.Error("client bot stopped", zap.Error(err))
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	masterBot.Stop()
	clientBot.Stop()
}
