package main

import (
	"log"

	"github.com/sjzar/chatsync/cmd/chatsync"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	chatsync.Execute()
}
