package main

import (
	"os"

	"genaid/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
