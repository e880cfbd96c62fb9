// main is the entry point for the questlog CLI.
package main

import (
	"os"

	"github.com/huangsam/questlog/cmd"
	"github.com/huangsam/questlog/internal/iocache"
	"github.com/huangsam/questlog/internal/logging"
)

func main() {
	defer iocache.CloseStores()
	cmd.SetStoreManager(iocache.Manager)
	if err := cmd.Execute(); err != nil {
		logging.Error().Err(err).Msg("Command failed")
		iocache.CloseStores()
		os.Exit(1)
	}
}
