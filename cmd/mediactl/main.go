package main

import (
	"os"

	"github.com/dmitrijs2005/postmedia/internal/client/cli"
)

func main() {
	os.Exit(cli.Execute(os.Stderr))
}
