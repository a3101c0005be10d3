// Package config contains the configuration of a single committee member.
package config

import (
	"time"

	"github.com/Setheum-Labs/HS3/pkg/gomel"
	"github.com/Setheum-Labs/HS3/pkg/logging"
)

const (
	// DefaultCommitteeSize is the committee size used when nothing else is known.
	DefaultCommitteeSize = 4
	// DefaultCreateDelay is the pause between gathering enough parents and creating a unit.
	DefaultCreateDelay = 300 * time.Millisecond
)

// Config represents the configuration of a single committee member.
type Config struct {
	// Number of processes in the committee.
	NProc uint16

	// Id of this process.
	Pid uint16

	// Delay between gathering a quorum of parents and creating a unit.
	// More parents may arrive in the meantime. This is a scheduling policy only.
	CreateDelay time.Duration

	// When positive, no units of higher rounds are created.
	MaxRound int

	// The maximal number of units waiting in the terminal for their parents. Newer ones are dropped above it.
	MaxWaiting int

	// Waiting units more than this many rounds below the top of the dag are dropped. 0 keeps them forever.
	MaxWaitingRounds int

	// The number of hashes of rejected units remembered by the terminal.
	RejectedCacheSize int

	// Name of the hash function used for unit hashes: "sha3" or "blake2b".
	Hasher string

	// Log level: 0-debug 1-info 2-warn 3-error 4-fatal 5-panic.
	LogLevel int

	// Path to the log file. "stdout" and "stderr" are possible too.
	LogFile string

	// The size of log diode buffer in bytes. 0 disables the diode. Recommended at least 100k.
	LogBuffer int

	// Whether to write the log in the human readable form or in JSON.
	LogHuman bool

	// How often (in seconds) to log the memory usage. 0 to disable.
	LogMemInterval int
}

// NewDefaultConfig returns default set of parameters.
func NewDefaultConfig() Config {
	return Config{
		NProc:             DefaultCommitteeSize,
		Pid:               0,
		CreateDelay:       DefaultCreateDelay,
		MaxRound:          0,
		MaxWaiting:        100000,
		MaxWaitingRounds:  20,
		RejectedCacheSize: 1024,
		Hasher:            "sha3",
		LogLevel:          1,
		LogFile:           "stdout",
		LogBuffer:         100000,
		LogHuman:          false,
		LogMemInterval:    10,
	}
}

// Quorum is the minimal number of distinct creators forming a quorum in this committee.
func (c Config) Quorum() uint16 {
	return gomel.MinimalQuorum(c.NProc)
}

// LogConfig extracts the logger settings.
func (c Config) LogConfig() logging.LogConfig {
	return logging.LogConfig{
		Level:    c.LogLevel,
		Path:     c.LogFile,
		DiodeBuf: c.LogBuffer,
		TimeUnit: time.Millisecond,
		Human:    c.LogHuman,
	}
}
