// Command bootcheck bootstraps a ClickHouse database and table, inserts
// rows, and prints the readback.
package main

import (
	"context"
	"os"

	"github.com/roach88/bootcheck/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
