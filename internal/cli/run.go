package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mousewatch/internal/config"
	"mousewatch/internal/flow"
	"mousewatch/internal/log"
	"mousewatch/internal/position"
	"mousewatch/internal/tray"
	"mousewatch/watcher"
)

type runOptions struct {
	configPath     string
	debug          bool
	tray           bool
	logMoves       bool
	reportInterval time.Duration
	switchReceiver bool
}

func newRunCmd() *cobra.Command {
	return newRunCommand(&runOptions{})
}

func newRunCommand(opts *runOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Install the mouse hook and report cursor movement until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), cfg, opts.configPath)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "path to config file (default: <user config dir>/mousewatch.yml)")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.tray, "tray", false, "show a system tray icon")
	flags.BoolVar(&opts.logMoves, "log-moves", false, "log every cursor movement at debug level")
	flags.DurationVar(&opts.reportInterval, "report-interval", time.Second, "how often to report the latest position")
	flags.BoolVar(&opts.switchReceiver, "switch-receiver", false, "switch the HID receiver when the cursor leaves the left edge")
	return cmd
}

// resolve loads the config file and applies flags the user set explicitly.
func (o *runOptions) resolve(cmd *cobra.Command) (config.Config, error) {
	if o.configPath == "" {
		path, err := config.GetPath()
		if err != nil {
			return config.Config{}, fmt.Errorf("locate config: %w", err)
		}
		o.configPath = path
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = o.debug
	}
	if flags.Changed("tray") {
		cfg.Tray = o.tray
	}
	if flags.Changed("log-moves") {
		cfg.LogMoves = o.logMoves
	}
	if flags.Changed("report-interval") {
		cfg.ReportInterval = o.reportInterval
	}
	if flags.Changed("switch-receiver") {
		cfg.Receiver.Enabled = o.switchReceiver
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runWatch(parent context.Context, cfg config.Config, configPath string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.SetDebug(cfg.Debug)

	var logMoves atomic.Bool
	logMoves.Store(cfg.LogMoves)

	tracker := &position.Tracker{}
	switcher, closeReceiver, err := openSwitcher(cfg.Receiver)
	if err != nil {
		return err
	}
	defer closeReceiver()
	if switcher != nil {
		go switcher.Run(ctx)
	}

	w := watcher.New(watcher.Options{
		OnMove: func(x, y int) {
			tracker.OnMove(x, y)
			if switcher != nil {
				switcher.OnMove(x, y)
			}
			if logMoves.Load() {
				log.Debugf("mouse moved to X=%d, Y=%d", x, y)
			}
		},
		Logger: log.WarningLogger(),
	})

	cw := config.NewWatcher(configPath)
	if err := cw.Watch(); err != nil {
		log.Warningf("config reload disabled: %v", err)
	} else {
		defer cw.Stop()
		go followConfig(ctx, cw, &logMoves)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Run(ctx)
	}()
	log.Infof("watching mouse movement (tray=%v, report every %s)", cfg.Tray, cfg.ReportInterval)

	go tracker.Report(ctx, cfg.ReportInterval, func(s position.Snapshot) {
		log.Infof("cursor at X=%d, Y=%d (%d moves)", s.X, s.Y, s.Moves)
		if cfg.Tray {
			tray.SetPosition(s.X, s.Y, s.Moves)
		}
	})

	if cfg.Tray {
		ready := make(chan struct{})
		var readyOnce sync.Once
		done := quitWhenReady(ready, errCh, tray.Quit)
		tray.Run(tray.Options{
			LogMoves:   cfg.LogMoves,
			OnLogMoves: logMoves.Store,
			OnReady:    func() { readyOnce.Do(func() { close(ready) }) },
			OnQuit:     cancel,
		})
		cancel()
		readyOnce.Do(func() { close(ready) })
		err = <-done
	} else {
		err = <-errCh
	}

	switch {
	case err == nil, errors.Is(err, context.Canceled):
		log.Info("mouse watcher stopped")
		return nil
	case errors.Is(err, watcher.ErrHookInstallFailed):
		return fmt.Errorf("failed to install mouse hook: %w", err)
	default:
		return err
	}
}

// quitWhenReady quits the tray once the watcher has returned. The tray
// ignores Quit until its icon exists, so the call waits for ready.
func quitWhenReady(ready <-chan struct{}, errCh <-chan error, quit func()) <-chan error {
	done := make(chan error, 1)
	go func() {
		err := <-errCh
		<-ready
		quit()
		done <- err
	}()
	return done
}

// openSwitcher returns a nil switcher when receiver switching is disabled.
func openSwitcher(cfg config.Receiver) (*flow.Switcher, func(), error) {
	if !cfg.Enabled {
		return nil, func() {}, nil
	}
	dev, err := flow.OpenReceiver(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open receiver: %w", err)
	}
	switcher, err := flow.NewSwitcher(flow.Options{
		Device:   dev,
		Report:   cfg.Report,
		Debounce: cfg.Debounce,
	})
	if err != nil {
		dev.Close()
		return nil, nil, err
	}
	return switcher, func() {
		if err := dev.Close(); err != nil {
			log.Warningf("close receiver: %v", err)
		}
	}, nil
}

func followConfig(ctx context.Context, cw *config.Watcher, logMoves *atomic.Bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case cfg := <-cw.Updates:
			log.SetDebug(cfg.Debug)
			logMoves.Store(cfg.LogMoves)
			log.Infof("config reloaded (debug=%v, log_moves=%v)", cfg.Debug, cfg.LogMoves)
		case werr := <-cw.Errors:
			log.Warningf("config watch: %v", werr.Err)
			if werr.Fatal {
				return
			}
		}
	}
}
