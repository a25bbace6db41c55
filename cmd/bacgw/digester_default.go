//go:build !softhsm

package main

import (
	"github.com/alovak/bacgateway/internal/security"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"
)

func newDigester(_ *viper.Viper, _ *slog.Logger) (security.Digester, func(), error) {
	return security.NewMD5(), func() {}, nil
}
