package chatsync

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sjzar/chatsync/internal/chatsync/conf"
	"github.com/sjzar/chatsync/internal/chatsync/push"
	"github.com/sjzar/chatsync/internal/chatsync/sync"
	"github.com/sjzar/chatsync/internal/wechatdb"
)

// App 组装一次同步运行需要的全部组件
type App struct {
	conf  *conf.SyncConfig
	runID string
	db    *wechatdb.DB
	sync  *sync.Service
}

func New(conf *conf.SyncConfig) (*App, error) {
	db, err := wechatdb.New(conf.DataDir)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	client := push.New(conf.BaseURL(), conf.Path, conf.DelayMs, runID)

	return &App{
		conf:  conf,
		runID: runID,
		db:    db,
		sync:  sync.NewService(conf, db, client),
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	log.Info().Str("run_id", a.runID).Str("endpoint", a.conf.BaseURL()+a.conf.Path).Msg("sync start")
	if err := a.sync.Run(ctx); err != nil {
		return err
	}
	log.Info().Str("run_id", a.runID).Msg("sync done")
	return nil
}

func (a *App) Close() error {
	return a.db.Close()
}
