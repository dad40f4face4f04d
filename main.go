package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/fitr/internal/config"
	"github.com/sadopc/fitr/internal/logging"
	"github.com/sadopc/fitr/internal/progress"
	"github.com/sadopc/fitr/internal/store"
	"github.com/sadopc/fitr/internal/tui"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := config.NewFlagSet("fitr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}

	closer, err := logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogFile,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogJSON,
	})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer closer.Close()

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()
	log.Infof("database opened: %s", cfg.DBPath)

	// Sessions left running by a crash or kill can never complete.
	if n, err := s.CancelRunningWorkouts(); err != nil {
		log.Warnf("cancel stale workouts: %v", err)
	} else if n > 0 {
		log.Infof("cancelled %d stale workouts", n)
	}

	tr := progress.NewTracker(s)
	tr.Restore()
	if reset, err := tr.CheckStreakDecay(); err != nil {
		log.Warnf("streak decay: %v", err)
	} else if reset {
		log.Info("streak reset after a missed day")
	}

	p := tea.NewProgram(tui.NewApp(s, tr), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	log.Info("bye")
	return nil
}
