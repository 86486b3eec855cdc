package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"chipview/internal/app"
	"chipview/internal/config"
	"chipview/internal/ingress"
	"chipview/internal/logging"
	"chipview/internal/receipts"
	"chipview/internal/tui"
)

const shutdownTimeout = 3 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "chipview:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, closer, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	sink := app.NewSink(logger)
	defer sink.Recover()

	store, err := receipts.Open(cfg.ReceiptsDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	appCtx := app.NewContext()
	hook := app.NewHook(appCtx, app.WithLogger(logger), app.WithRecorder(store))
	var preload string
	if len(args) > 0 {
		preload = args[0]
	}
	model := tui.New(tui.Options{
		Context: appCtx,
		Hook:    hook,
		Boot:    app.Options{Logger: logger},
		Preload: preload,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	hook.SetNotify(func(r app.Result) { p.Send(tui.ChipDataMsg{Result: r}) })
	bridge := ingress.NewScriptBridge(hook,
		ingress.WithAppContext(appCtx),
		ingress.WithSceneChanged(func(reason string) { p.Send(tui.SceneChangedMsg{Reason: reason}) }),
	)
	bridge.SetTimeout(cfg.ScriptTimeout)

	var httpSrv *ingress.HTTPServer
	if cfg.HTTPAddr != "" {
		httpSrv = ingress.NewHTTP(ingress.HTTPConfig{
			Deliverer: hook,
			Bridge:    bridge,
			Status:    appCtx,
			Receipts:  store,
			Logger:    logger,
		})
		sink.Go("http ingress", func() error { return httpSrv.Listen(cfg.HTTPAddr) })
		logger.Info("http ingress listening", "addr", cfg.HTTPAddr)
	}
	var wsSrv *ingress.WSServer
	if cfg.WSAddr != "" {
		wsSrv = ingress.NewWS(hook, bridge, logger)
		sink.Go("websocket ingress", func() error { return wsSrv.ListenAndServe(cfg.WSAddr) })
		logger.Info("websocket ingress listening", "addr", cfg.WSAddr)
	}
	if cfg.WatchFile != "" {
		fw := ingress.NewFileWatcher(cfg.WatchFile, hook, logger)
		fw.PushWhenReady(appCtx.Published())
		sink.Go("file watch", func() error { return fw.Run(ctx) })
	}

	final, runErr := p.Run()
	cancel()
	shutdown(logger, httpSrv, wsSrv)
	sink.Wait()

	switch {
	case errors.Is(runErr, tea.ErrProgramPanic):
		sink.ApplicationError(runErr)
		return runErr
	case errors.Is(runErr, tea.ErrProgramKilled):
	case runErr != nil:
		return fmt.Errorf("run ui: %w", runErr)
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		logger.Error("bootstrap failed", "error", m.Err())
		return m.Err()
	}
	logger.Info("chip viewer stopped")
	return nil
}

func shutdown(logger *slog.Logger, httpSrv *ingress.HTTPServer, wsSrv *ingress.WSServer) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if httpSrv != nil {
		if err := httpSrv.Shutdown(ctx); err != nil {
			logger.Error("http shutdown", "error", err)
		}
	}
	if wsSrv != nil {
		if err := wsSrv.Shutdown(ctx); err != nil {
			logger.Error("websocket shutdown", "error", err)
		}
	}
}
