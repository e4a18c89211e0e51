package main

import (
	"github.com/rs/zerolog/log"

	"github.com/offgate/offgate/ainit"
	"github.com/offgate/offgate/cmd"
)

func main() {
	log.Info().Bool("loaded", ainit.Loaded()).Msg("initializing services")
	cmd.Execute()
}
