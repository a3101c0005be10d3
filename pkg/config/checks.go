package config

import (
	"github.com/Setheum-Labs/HS3/pkg/crypto/hashing"
	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

// Valid checks that the configuration is internally consistent.
func Valid(c Config) error {
	if c.NProc == 0 {
		return gomel.NewConfigError("NProc set to 0")
	}
	if c.Pid >= c.NProc {
		return gomel.NewConfigError("Pid out of range")
	}
	if c.CreateDelay < 0 {
		return gomel.NewConfigError("CreateDelay is negative")
	}
	if c.MaxRound < 0 {
		return gomel.NewConfigError("MaxRound is negative")
	}
	if c.MaxWaiting < 0 {
		return gomel.NewConfigError("MaxWaiting is negative")
	}
	if c.MaxWaitingRounds < 0 {
		return gomel.NewConfigError("MaxWaitingRounds is negative")
	}
	if c.RejectedCacheSize <= 0 {
		return gomel.NewConfigError("RejectedCacheSize has to be positive")
	}
	if _, err := hashing.ByName(c.Hasher); err != nil {
		return err
	}
	if c.LogLevel < -1 || c.LogLevel > 5 {
		return gomel.NewConfigError("LogLevel out of range")
	}
	return nil
}
