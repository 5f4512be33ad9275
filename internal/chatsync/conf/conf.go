package conf

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/sjzar/chatsync/pkg/config"
)

const (
	AppName      = "chatsync"
	EnvPrefix    = "CHATSYNC"
	EnvConfigDir = "CHATSYNC_DIR"
)

// LoadSyncConfig 加载同步配置，configPath 为空时依次取
// CHATSYNC_DIR 和默认目录
func LoadSyncConfig(configPath string) (*SyncConfig, *config.Manager, error) {

	if configPath == "" {
		configPath = os.Getenv(EnvConfigDir)
	}

	scm, err := config.New(AppName, configPath, "", EnvPrefix)
	if err != nil {
		log.Error().Err(err).Msg("load sync config failed")
		return nil, nil, err
	}

	conf := &SyncConfig{}
	config.SetDefaults(scm.Viper, SyncDefaults)

	if err := scm.Load(conf); err != nil {
		log.Error().Err(err).Msg("load sync config failed")
		return nil, nil, err
	}

	if err := conf.Validate(); err != nil {
		return nil, nil, err
	}

	b, _ := json.Marshal(conf)
	log.Info().Msgf("sync config: %s", string(b))

	return conf, scm, nil
}
