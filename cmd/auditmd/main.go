package main

import (
	"os"

	"github.com/auditmd/auditmd/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
