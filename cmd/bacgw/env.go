package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/alovak/bacgateway/gateway"
	"github.com/alovak/bacgateway/merchant"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"
)

// env resolves settings from flags, BAC_* variables, an optional dotenv
// file and an optional YAML file, in that order of precedence.
type env struct {
	v      *viper.Viper
	logger *slog.Logger
}

func newEnv() *env {
	v := viper.New()
	v.SetEnvPrefix("BAC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	def := merchant.DefaultConfig()
	v.SetDefault("http_addr", def.HTTPAddr)
	v.SetDefault("repo_backend", def.RepoBackend)
	v.SetDefault("currency", def.Gateway.DefaultCurrency)
	v.SetDefault("timeout", def.Gateway.Timeout)
	v.SetDefault("test_url", def.Gateway.TestURL)
	v.SetDefault("live_url", def.Gateway.LiveURL)
	v.SetDefault("hsm_slot", 0)

	return &env{v: v, logger: slog.Default()}
}

func (e *env) bindFlags(flags *pflag.FlagSet) {
	for _, name := range []string{"test", "key-id", "currency", "log-level"} {
		_ = e.v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}
}

func (e *env) load(cmd *cobra.Command) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		e.v.SetConfigFile(path)
		e.v.SetConfigType("yaml")
		if err := e.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(e.v.GetString("log_level"))); err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	e.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

func (e *env) gatewayConfig() *gateway.Config {
	return &gateway.Config{
		KeyID:           e.v.GetString("key_id"),
		HashKey:         e.v.GetString("hash_key"),
		Test:            e.v.GetBool("test"),
		TestURL:         e.v.GetString("test_url"),
		LiveURL:         e.v.GetString("live_url"),
		DefaultCurrency: e.v.GetString("currency"),
		Timeout:         e.v.GetDuration("timeout"),
	}
}

func (e *env) merchantConfig() *merchant.Config {
	return &merchant.Config{
		HTTPAddr:    e.v.GetString("http_addr"),
		RepoBackend: e.v.GetString("repo_backend"),
		DBDSN:       e.v.GetString("db_dsn"),
		NATSURL:     e.v.GetString("nats_url"),
		ExpiryTZ:    e.v.GetString("expiry_tz"),
		Gateway:     e.gatewayConfig(),
	}
}

// gateway builds a gateway for one-shot commands. close releases the
// digester when it holds a token session.
func (e *env) gateway() (*gateway.Gateway, func(), error) {
	d, closeDigester, err := newDigester(e.v, e.logger)
	if err != nil {
		return nil, nil, err
	}
	gw, err := gateway.NewGateway(e.logger, e.gatewayConfig(), gateway.WithDigester(d))
	if err != nil {
		closeDigester()
		return nil, nil, err
	}
	return gw, closeDigester, nil
}
