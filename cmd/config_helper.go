package main

import (
	"fmt"
	"strconv"

	"github.com/hrctools/hrcpresolve/pkg/api/hrcpresolve"
	"github.com/hrctools/hrcpresolve/pkg/config"
	"github.com/sirupsen/logrus"
)

// modelOpts are the flags shared by every command which presolves an instance.
type modelOpts struct {
	in         string
	noPresolve bool
}

// settings is the outcome of merging the config file with the command line.
type settings struct {
	maxBP    int
	presolve bool
	format   string
}

// toSettings applies the command line on top of cfg. args holds the optional
// max_bp argument, changed reports whether a flag was set explicitly.
func toSettings(cfg *hrcpresolve.Config, args []string, changed func(name string) bool, opts modelOpts, format string) (*settings, error) {
	s := &settings{
		presolve: cfg.PresolveEnabled(),
		format:   cfg.Format,
	}

	switch {
	case len(args) > 0:
		maxBP, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("max_bp must be an integer: %v", err)
		}
		s.maxBP = maxBP
	case cfg.MaxBlockingPairs != nil:
		logrus.Debugf("Using max_bp %d from the config file.", *cfg.MaxBlockingPairs)
		s.maxBP = *cfg.MaxBlockingPairs
	default:
		return nil, fmt.Errorf("max_bp is neither given as argument nor in the config file")
	}
	if s.maxBP < 0 {
		return nil, fmt.Errorf("max_bp must not be negative, got %d", s.maxBP)
	}

	if changed("no-presolve") {
		s.presolve = !opts.noPresolve
	}
	if changed("format") || s.format == "" {
		s.format = format
	}
	if s.format == "" {
		s.format = hrcpresolve.FormatDZN
	}
	if err := config.Validate(&hrcpresolve.Config{Format: s.format}); err != nil {
		return nil, err
	}
	return s, nil
}
