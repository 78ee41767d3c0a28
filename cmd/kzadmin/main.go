// Command kzadmin administers the KickZone platform from the terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kickzone/kickzone-admin/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], cli.StdStreams())
	stop()
	os.Exit(code)
}
