package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hrctools/hrcpresolve/pkg/instance"
	"github.com/hrctools/hrcpresolve/pkg/loader"
	"github.com/hrctools/hrcpresolve/pkg/presolve"
	"github.com/sirupsen/logrus"
)

// loadAndPresolve reads the instance, builds the model and presolves it in
// place according to s.
func loadAndPresolve(ctx context.Context, in string, s *settings) (*loader.Source, *instance.Model, *presolve.Stats, error) {
	logrus.Info("Loading instance.")
	src, err := loader.Load(ctx, in)
	if err != nil {
		return nil, nil, nil, err
	}
	m, err := instance.New(src.Instance)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid instance %s: %w", src.Name, err)
	}
	logrus.Info("Presolving.")
	stats, err := presolve.Run(m, presolve.Options{
		MaxBP: s.maxBP,
		Skip:  !s.presolve,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("internal error during presolve: %w", err)
	}
	return src, m, stats, nil
}

func headerComments(src *loader.Source, s *settings, stats *presolve.Stats) []string {
	comments := []string{
		fmt.Sprintf("instance %s", src.Name),
		fmt.Sprintf("blake2b-256 %s", src.Fingerprint),
		fmt.Sprintf("max_bp %d", s.maxBP),
	}
	if s.presolve {
		comments = append(comments, fmt.Sprintf("presolve removed %d edges", stats.RemovedEdges))
	} else {
		comments = append(comments, "presolve disabled")
	}
	return comments
}

// withOutput hands write stdout for "" and "-", else the created file.
func withOutput(out string, write func(w io.Writer) error) error {
	if out == "" || out == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", out, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %v", out, err)
	}
	return nil
}
