package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	cli "github.com/jawher/mow.cli"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const appDescription = "Turn a YouTube link into a deck of discardable flashcards"

func main() {
	app := cli.App("dynamocards", appDescription)

	configPath := app.String(cli.StringOpt{
		Name:   "config",
		Value:  "dynamocards.json",
		Desc:   "Optional JSON config file",
		EnvVar: "DYNAMOCARDS_CONFIG",
	})
	endpoint := app.String(cli.StringOpt{
		Name:   "endpoint",
		Value:  "",
		Desc:   "Analysis service endpoint (default " + defaultEndpoint + ")",
		EnvVar: "DYNAMOCARDS_ENDPOINT",
	})
	httpTimeout := app.String(cli.StringOpt{
		Name:   "http-timeout",
		Value:  "",
		Desc:   "Duration to wait for the analysis service (default " + defaultHTTPTimeout.String() + ")",
		EnvVar: "HTTP_TIMEOUT",
	})
	logFile := app.String(cli.StringOpt{
		Name:   "log-file",
		Value:  "debug.log",
		Desc:   "File to write logs to",
		EnvVar: "LOG_FILE",
	})
	logLevel := app.String(cli.StringOpt{
		Name:   "log-level",
		Value:  "INFO",
		Desc:   "Log level",
		EnvVar: "LOG_LEVEL",
	})

	app.Action = func() {
		err := run(options{
			configPath:  *configPath,
			endpoint:    *endpoint,
			httpTimeout: *httpTimeout,
			logFile:     *logFile,
			logLevel:    *logLevel,
		})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Printf("App could not start, error=[%s]\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	endpoint    string
	httpTimeout string
	logFile     string
	logLevel    string
}

// run owns the log file so it is closed on every return path.
func run(opts options) error {
	// stdout belongs to the TUI, so logs go to a file.
	f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrap(err, "could not create log file")
	}
	defer f.Close()

	logger := newLogger(f, opts.logLevel)
	logger.Infof("[Startup] dynamocards is starting")

	cfg, err := loadConfig(opts.configPath)
	if err == nil {
		cfg, err = cfg.override(opts.endpoint, opts.httpTimeout)
	}
	if err != nil {
		logger.WithError(err).Error("Invalid configuration")
		return errors.Wrap(err, "invalid configuration")
	}
	logger.WithFields(log.Fields{"endpoint": cfg.Endpoint, "timeout": cfg.HTTPTimeout}).Info("Configuration loaded")

	client := NewAnalysisClient(cfg.Endpoint, cfg.HTTPTimeout)
	ctrl := NewController(NewConceptStore(), client, logger)

	p := tea.NewProgram(newModel(ctrl, client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.WithError(err).Error("TUI exited with an error")
		return errors.Wrap(err, "running TUI")
	}
	ctrl.LogStats()
	return nil
}
