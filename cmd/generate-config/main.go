package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v2"

	"holdem-server/internal/config"
)

var cli struct {
	Output string `short:"o" type:"path" help:"Write the config to this file instead of stdout"`
}

func main() {
	ctx := kong.Parse(&cli, kong.Description("Prints the default configuration as YAML"))

	var w io.Writer = os.Stdout
	if cli.Output != "" {
		file, err := os.Create(cli.Output)
		ctx.FatalIfErrorf(err)
		defer file.Close()

		w = file
	}

	ctx.FatalIfErrorf(yaml.NewEncoder(w).Encode(config.DefaultConfig()))
}
