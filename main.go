package main

import (
	"os"

	"github.com/Moukrea/scaffoldit/internal/cli"
)

// version will be set during build
var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}
