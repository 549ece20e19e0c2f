package main

import (
	"os"

	"loupe/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
