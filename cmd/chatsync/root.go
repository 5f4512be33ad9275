package chatsync

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sjzar/chatsync/internal/chatsync"
	"github.com/sjzar/chatsync/internal/chatsync/conf"
)

func init() {
	// windows only
	cobra.MousetrapHelpText = ""

	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "debug")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config directory")
	rootCmd.PersistentFlags().StringVar(&logFile, "logfile", "", "append log to file")
	rootCmd.PersistentPreRun = initLog
}

var configPath string

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Err(err).Msg("command execution failed")
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "chatsync",
	Short:   "chatsync",
	Long:    `Export local chat history to a remote ingestion endpoint`,
	Example: `chatsync`,
	Args:    cobra.MinimumNArgs(0),
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Run: Root,
}

// Root 一次性批处理：读取 → 转换 → 上报 → 退出。
// 提取失败是致命错误，直接终止进程。
func Root(cmd *cobra.Command, args []string) {
	config, _, err := conf.LoadSyncConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load sync config failed")
	}

	app, err := chatsync.New(config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open data source")
	}
	defer app.Close()

	if err := app.Run(cmd.Context()); err != nil {
		log.Fatal().Err(err).Msg("sync aborted")
	}
}
