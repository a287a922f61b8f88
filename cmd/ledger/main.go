package main

import (
	"os"

	"github.com/templui/skilledger/cmd/ledger/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
