package main

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Leganyst/production-board/internal/config"
	"github.com/Leganyst/production-board/internal/db"
	"github.com/Leganyst/production-board/internal/kintone"
	"github.com/Leganyst/production-board/internal/model"
	"github.com/Leganyst/production-board/internal/repository"
	"github.com/Leganyst/production-board/internal/service"
)

// app holds the store and services shared by the subcommands.
type app struct {
	db       *gorm.DB
	server   *config.ServerConfig
	board    config.BoardSource
	entries  *repository.GormEntryRepository
	products *repository.GormProductRepository
	events   *repository.GormEventRepository
	boardSvc *service.BoardService
	syncSvc  *service.SyncService
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// openApp connects and migrates the store. A nil board source loads the
// board config file once.
func openApp(board config.BoardSource) (*app, error) {
	serverCfg := config.LoadServerConfig()
	if boardFile != "" {
		serverCfg.BoardFile = boardFile
	}
	if board == nil {
		cfg, err := config.LoadBoardConfig(serverCfg.BoardFile)
		if err != nil {
			return nil, err
		}
		board = config.StaticBoard(cfg)
	}

	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		return nil, fmt.Errorf("load db config: %w", err)
	}
	gormDB, err := db.NewGormDB(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}
	if err := model.AutoMigrate(gormDB); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	kCfg, ok, err := config.LoadKintoneConfig()
	if err != nil {
		return nil, err
	}
	var remote service.RemoteStore
	if ok {
		remote = kintone.NewClient(*kCfg)
	} else {
		logger.Debug("kintone not configured, sync disabled")
	}

	loc := board.Board().Location()
	entries := repository.NewGormEntryRepository(gormDB, loc)
	products := repository.NewGormProductRepository(gormDB)
	events := repository.NewGormEventRepository(gormDB)

	return &app{
		db:       gormDB,
		server:   serverCfg,
		board:    board,
		entries:  entries,
		products: products,
		events:   events,
		boardSvc: service.NewBoardService(entries, products, board, logger).WithEvents(events),
		syncSvc:  service.NewSyncService(entries, remote, *kCfg, logger).WithEvents(events),
	}, nil
}

func commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}
