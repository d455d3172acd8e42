package main

import (
	"fmt"
	"os"

	"github.com/realcatgirly/gobright/api"
	"github.com/realcatgirly/gobright/cli"
	"github.com/realcatgirly/gobright/config"
	"github.com/realcatgirly/gobright/display"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	enumerate := func() []api.Display {
		return display.Enumerate(cfg, os.Stderr)
	}
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr, enumerate))
}
