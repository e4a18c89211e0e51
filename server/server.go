package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/offgate/offgate/config"
	"github.com/offgate/offgate/failures"
	"github.com/offgate/offgate/handlers"
	"github.com/offgate/offgate/render"
	"github.com/offgate/offgate/reports"
	"github.com/offgate/offgate/salt"
	"github.com/offgate/offgate/vault/sqlite"
)

func RunServer() {
	render.Init()

	err := config.Init()
	var fileNotFoundError viper.ConfigFileNotFoundError
	if errors.As(err, &fileNotFoundError) {
		log.Fatal().Msg("no config file found; write an offgate.yaml before starting")
	}

	salt.CheckOrMakeSalt()

	configErrors := config.ValidateConfig()
	if configErrors != nil {
		for _, curr := range configErrors {
			log.Error().Str("problem", curr).Msg("invalid configuration")
		}
		os.Exit(1)
	}

	config.Lock.RLock()
	port := viper.GetInt(config.KeyServerPort)
	if port == 0 {
		log.Warn().Msg("no port specified, using port 9000")
		port = 9000
	}
	config.Lock.RUnlock()

	v, err := sqlite.NewFromConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize vault")
	}

	store, err := reports.NewS3FromConfig(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize report store")
	}

	counter := failures.NewMemoryCounter()

	e := handlers.Env{
		Vault:   v,
		Reports: store,
		Counter: counter,
	}
	log.Info().Msg("services initialized")

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  15 * time.Second,
		Handler:      e.BuildRouter(),
	}

	log.Info().Int("port", port).Msg("starting server")
	go func() {
		if viper.GetBool(config.KeyTLSEnabled) {
			keyFile := viper.GetString(config.KeyTLSKeyFile)
			certFile := viper.GetString(config.KeyTLSCertFile)
			log.Info().Int("port", port).Str("key_file", keyFile).Str("cert_file", certFile).Msg("starting with tls enabled")
			if err := srv.ListenAndServeTLS(certFile, keyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Panic().Err(err).Msg("error starting server")
			}
		} else {
			log.Info().Int("port", port).Msg("starting plain HTTP server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Panic().Err(err).Msg("error starting server")
			}
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	<-c

	log.Warn().Msg("interrupt received")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		log.Info().Msg("shutting down server")
		err := srv.Shutdown(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("error shutting down server")
		}
		wg.Done()
	}()
	go func() {
		log.Info().Msg("closing vault")
		counter.Stop()
		err := v.Close()
		if err != nil {
			log.Warn().Err(err).Msg("error closing vault")
		}
		wg.Done()
	}()
	wg.Wait()
	log.Info().Msg("shutdown complete")

	os.Exit(0)
}
