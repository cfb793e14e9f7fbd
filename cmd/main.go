package main

import (
	"os"

	"github.com/hydracat/notification-scheduler/internal/cli"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	if err := cli.NewRootCommand(Version).Execute(); err != nil {
		os.Exit(1)
	}
}
