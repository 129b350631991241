package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cperez90008/kiwiai/core/agent"
	"github.com/cperez90008/kiwiai/core/ledger"
	"github.com/cperez90008/kiwiai/core/memory"
	"github.com/cperez90008/kiwiai/core/providers"
	"github.com/cperez90008/kiwiai/core/scheduler"
	"github.com/cperez90008/kiwiai/pkg/keystore"
	"github.com/cperez90008/kiwiai/services/connectors"
	"github.com/cperez90008/kiwiai/webui"
	"github.com/mudler/xlog"
)

var (
	port       = os.Getenv("PORT")
	configPath = os.Getenv("KIWI_CONFIG_PATH")
	dataDir    = os.Getenv("KIWI_DATA_DIR")
	logDir     = os.Getenv("KIWI_LOG_DIR")
	publicDir  = os.Getenv("KIWI_PUBLIC_DIR")
	timeoutVar = os.Getenv("KIWI_TIMEOUT")
	version    = os.Getenv("KIWI_VERSION")
)

func init() {
	if port == "" {
		port = "8080"
	}
	if configPath == "" {
		configPath = "config/.env"
	}
	if dataDir == "" {
		dataDir = "data"
	}
	if logDir == "" {
		logDir = "logs"
	}
	if publicDir == "" {
		publicDir = "public"
	}
	if timeoutVar == "" {
		timeoutVar = "2m"
	}
	if version == "" {
		version = "1.0.0"
	}
}

func main() {
	for _, dir := range []string{filepath.Dir(configPath), dataDir, logDir} {
		os.MkdirAll(dir, 0755)
	}

	timeout, err := time.ParseDuration(timeoutVar)
	if err != nil {
		xlog.Warn("Invalid KIWI_TIMEOUT, using 2m", "value", timeoutVar)
		timeout = 2 * time.Minute
	}

	keys := keystore.New(configPath)
	costs := ledger.New(filepath.Join(dataDir, "costs.json"))
	facts := memory.New(filepath.Join(dataDir, "memory.json"))
	tasks := scheduler.NewJSONStore(filepath.Join(dataDir, "tasks.json"))
	runs := scheduler.NewRunLog(filepath.Join(logDir, "scheduled.log"))

	kiwi := agent.New(keys, costs, facts, providers.DefaultAdapters(2048), timeout)
	notifier := connectors.NewTelegramNotifier(keys)

	sched := scheduler.New(tasks, runs, kiwi, notifier, time.Minute)
	sched.Start()
	defer sched.Stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bridge := connectors.NewTelegramBridge(keys, kiwi, tasks, costs)
	go bridge.Run(ctx)

	app := webui.NewApp(
		webui.WithAgent(kiwi),
		webui.WithKeystore(keys),
		webui.WithLedger(costs),
		webui.WithMemory(facts),
		webui.WithTaskStore(tasks),
		webui.WithRunLog(runs),
		webui.WithNotifier(notifier),
		webui.WithVersion(version),
		webui.WithStaticDir(publicDir),
	)

	go func() {
		<-ctx.Done()
		xlog.Info("Shutting down")
		app.Shutdown()
	}()

	xlog.Info("KiwiAI panel starting", "port", port, "data", dataDir, "config", configPath)
	if err := app.Listen(":" + port); err != nil {
		xlog.Error("Server stopped", "error", err)
	}
}
