// Package config loads the settings of a pagedmem run from .env files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/sarchlab/pagedmem/mem/vm/mmu"
)

// Keys of the settings. Environment variables take precedence over .env
// files.
const (
	KeyMemorySize         = "PAGEDMEM_MEMORY_SIZE"
	KeyOffsetBits         = "PAGEDMEM_OFFSET_BITS"
	KeyFirstLevelBits     = "PAGEDMEM_FIRST_LEVEL_BITS"
	KeySecondLevelBits    = "PAGEDMEM_SECOND_LEVEL_BITS"
	KeyMaxSegments        = "PAGEDMEM_MAX_SEGMENTS"
	KeyMaxPagesPerSegment = "PAGEDMEM_MAX_PAGES_PER_SEGMENT"
	KeyLogLevel           = "PAGEDMEM_LOG_LEVEL"
	KeyMonitorPort        = "PAGEDMEM_MONITOR_PORT"
)

// DefaultEnvFile is read by Load when no file is named and it exists.
const DefaultEnvFile = ".env"

// ErrInvalidValue is returned when a setting cannot be parsed.
var ErrInvalidValue = errors.New("config: invalid value")

// Config holds everything a run needs.
type Config struct {
	Spec        mmu.Spec
	LogLevel    slog.Level
	MonitorPort int
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Spec:     mmu.Defaults(),
		LogLevel: slog.LevelWarn,
	}
}

// Load reads the env files in order, then applies the environment on top. A
// key set by an earlier file is not overridden by a later one. The resulting
// spec is validated.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		if _, err := os.Stat(DefaultEnvFile); err == nil {
			envFiles = []string{DefaultEnvFile}
		}
	}

	values := map[string]string{}

	if len(envFiles) > 0 {
		var err error

		values, err = godotenv.Read(envFiles...)
		if err != nil {
			return Config{}, fmt.Errorf("reading env files: %w", err)
		}
	}

	return FromMap(values, os.LookupEnv)
}

// FromMap builds a configuration from file values overridden by lookup.
// lookup may be nil.
func FromMap(
	values map[string]string,
	lookup func(string) (string, bool),
) (Config, error) {
	get := func(key string) (string, bool) {
		if lookup != nil {
			if v, ok := lookup(key); ok {
				return v, true
			}
		}

		v, ok := values[key]

		return v, ok
	}

	cfg := Default()
	p := parser{get: get}

	p.bytesValue(KeyMemorySize, &cfg.Spec.MemorySize)
	p.uintValue(KeyOffsetBits, &cfg.Spec.Layout.OffsetBits)
	p.uintValue(KeyFirstLevelBits, &cfg.Spec.Layout.FirstLevelBits)
	p.uintValue(KeySecondLevelBits, &cfg.Spec.Layout.SecondLevelBits)
	p.intValue(KeyMaxSegments, &cfg.Spec.MaxSegments)
	p.intValue(KeyMaxPagesPerSegment, &cfg.Spec.MaxPagesPerSegment)
	p.intValue(KeyMonitorPort, &cfg.MonitorPort)
	p.levelValue(KeyLogLevel, &cfg.LogLevel)

	if p.err != nil {
		return Config{}, p.err
	}

	if err := cfg.Spec.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// parser keeps the first error so that the fields can be parsed in a row.
type parser struct {
	get func(string) (string, bool)
	err error
}

func (p *parser) lookup(key string) (string, bool) {
	if p.err != nil {
		return "", false
	}

	v, ok := p.get(key)
	if !ok || v == "" {
		return "", false
	}

	return v, true
}

func (p *parser) fail(key, value string, err error) {
	p.err = fmt.Errorf("%s=%q: %w: %v", key, value, ErrInvalidValue, err)
}

func (p *parser) bytesValue(key string, dst *uint64) {
	v, ok := p.lookup(key)
	if !ok {
		return
	}

	n, err := humanize.ParseBytes(v)
	if err != nil {
		p.fail(key, v, err)
		return
	}

	*dst = n
}

func (p *parser) uintValue(key string, dst *uint64) {
	v, ok := p.lookup(key)
	if !ok {
		return
	}

	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		p.fail(key, v, err)
		return
	}

	*dst = n
}

func (p *parser) intValue(key string, dst *int) {
	v, ok := p.lookup(key)
	if !ok {
		return
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return
	}

	*dst = n
}

func (p *parser) levelValue(key string, dst *slog.Level) {
	v, ok := p.lookup(key)
	if !ok {
		return
	}

	if err := dst.UnmarshalText([]byte(v)); err != nil {
		p.fail(key, v, err)
	}
}
