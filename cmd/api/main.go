package main

import (
	"fmt"
	"os"

	"github.com/famledger/transfer-backend/internal/cli"
	"github.com/famledger/transfer-backend/internal/infrastructure/config"
)

func main() {
	flags := cli.ParseServeFlags()
	cfg := config.LoadOrEnv()

	if err := cli.RunServe(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
