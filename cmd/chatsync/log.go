package chatsync

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var Debug bool
var logFile string

func initLog(cmd *cobra.Command, args []string) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}}

	// 进度日志按行追加写入，每页一条
	if logFile != "" {
		logFD, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			panic(err)
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: logFD, NoColor: true, TimeFormat: time.RFC3339})
	}

	log.Logger = log.Output(zerolog.MultiLevelWriter(writers...))
}
