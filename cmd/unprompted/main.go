package main

import (
	"os"

	"github.com/dshills/unprompted/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
