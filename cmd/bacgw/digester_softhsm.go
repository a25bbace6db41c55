//go:build softhsm

package main

import (
	"fmt"

	"github.com/alovak/bacgateway/internal/security"
	"github.com/alovak/bacgateway/internal/security/hsm"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"
)

// newDigester opens a token session when BAC_HSM_LIB is set and falls back
// to in-process MD5 otherwise.
func newDigester(v *viper.Viper, logger *slog.Logger) (security.Digester, func(), error) {
	lib := v.GetString("hsm_lib")
	if lib == "" {
		return security.NewMD5(), func() {}, nil
	}
	d := hsm.NewDigester(lib, v.GetUint("hsm_slot"), v.GetString("hsm_pin"))
	if err := d.Open(); err != nil {
		return nil, nil, fmt.Errorf("opening pkcs11 session: %w", err)
	}
	logger.Info("signing through pkcs11 token", slog.String("lib", lib))
	return d, d.Close, nil
}
