package conf

import (
	"fmt"

	"github.com/sjzar/chatsync/internal/errors"
	"github.com/sjzar/chatsync/internal/model"
)

const (
	DefaultPath         = "/api/v1/chat/sync"
	DefaultBatchSize    = 100
	DefaultMsgBatchSize = 500
	DefaultDelayMs      = 1000
)

// SyncConfig 单次同步运行的全部参数，加载后不可变，
// 显式传给需要的组件，不做全局状态
type SyncConfig struct {
	DataDir      string       `mapstructure:"data_dir"`       // 数据目录，MicroMsg.db 和解密消息库所在
	Host         string       `mapstructure:"host"`           // 上报服务地址
	Port         int          `mapstructure:"port"`           // 上报服务端口，0 使用默认端口
	Secure       bool         `mapstructure:"secure"`         // 是否使用 https
	Path         string       `mapstructure:"path"`           // 上报接口路径
	BatchSize    int          `mapstructure:"batch_size"`     // 联系人/群聊/成员分页大小
	MsgBatchSize int          `mapstructure:"msg_batch_size"` // 消息分页大小
	DelayMs      int64        `mapstructure:"delay_ms"`       // 每页之间的间隔
	Pusher       model.Pusher `mapstructure:"pusher"`         // 推送者身份
}

var SyncDefaults = map[string]any{
	"path":           DefaultPath,
	"batch_size":     DefaultBatchSize,
	"msg_batch_size": DefaultMsgBatchSize,
	"delay_ms":       DefaultDelayMs,
}

// BaseURL 根据 secure 选择明文或加密传输
func (c *SyncConfig) BaseURL() string {
	scheme := "http"
	if c.Secure {
		scheme = "https"
	}
	if c.Port > 0 {
		return fmt.Sprintf("%s://%s:%d", scheme, c.Host, c.Port)
	}
	return fmt.Sprintf("%s://%s", scheme, c.Host)
}

func (c *SyncConfig) Validate() error {
	if c.DataDir == "" {
		return errors.ConfigMissing("data_dir")
	}
	if c.Host == "" {
		return errors.ConfigMissing("host")
	}
	if c.Pusher.Account == "" {
		return errors.ConfigMissing("pusher.account")
	}
	if c.BatchSize <= 0 {
		return errors.ConfigMissing("batch_size")
	}
	if c.MsgBatchSize <= 0 {
		return errors.ConfigMissing("msg_batch_size")
	}
	return nil
}
