package config

import (
	"errors"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	Lock sync.RWMutex

	initLock  sync.Mutex
	hasInit   bool
	initError error
)

func IsProductionMode() bool {
	return os.Getenv("ENVIRONMENT") == "prod"
}

func IsDebugLoggingEnabled() bool {
	return os.Getenv("DEBUG_LOG") == "true"
}

func Init() error {
	initLock.Lock()
	defer initLock.Unlock()

	if hasInit {
		return initError
	}

	Lock.Lock()
	defer Lock.Unlock()

	configFilePath := os.Getenv("CONFIG_FILE_PATH")
	if configFilePath == "" {
		viper.SetConfigName("offgate")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("/config")
		viper.AddConfigPath(".")
	} else {
		viper.SetConfigFile(configFilePath)
	}

	err := viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			initError = err
			hasInit = true
			return initError
		}

		log.Fatal().Str("config_file", viper.ConfigFileUsed()).Err(err).Msg("could not read config")
	}
	log.Info().Str("config_file_path", viper.ConfigFileUsed()).Msg("initialized configuration")

	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Info().Str("file", e.Name).Str("op", e.Op.String()).Msg("config file changed; reloading")
	})
	viper.WatchConfig()

	hasInit = true
	return nil
}

func ValidateConfig() []string {
	var errorsFound []string

	if vaultKind := viper.GetString(KeyVaultKind); vaultKind != "sqlite" {
		log.Error().Str("vault.kind", vaultKind).Msg("invalid vault kind; must be sqlite")
		errorsFound = append(errorsFound, "invalid `vault.kind`; must be `sqlite`")
	}

	if file := viper.GetString(KeyVaultFile); file == "" {
		log.Error().Msg("vault.file is not set")
		errorsFound = append(errorsFound, "`vault.file` is not set")
	}

	if bucket := viper.GetString(KeyReportsBucket); bucket == "" {
		log.Error().Msg("reports.s3.bucket is not set")
		errorsFound = append(errorsFound, "`reports.s3.bucket` is not set")
	}

	if key := viper.GetString(KeyServerSecretKey); key == "" {
		log.Error().Msg("server.secret_key is not set; CSRF tokens will not survive restarts")
		errorsFound = append(errorsFound, "`server.secret_key` is not set")
	}

	return errorsFound
}
