package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/SalvatoreBevilacqua/monitoring-app/commonGo"
	"github.com/SalvatoreBevilacqua/monitoring-app/services/generator/factory"
	"github.com/SalvatoreBevilacqua/monitoring-app/storage"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli"
)

const (
	defaultLogsPath = "logs"
	logFilePrefix   = "generator"
	envFile         = "./.env"
	defaultDays     = 90
)

// appVersion should be populated at build time using ldflags
// Usage examples:
// Linux/macOS:
//
//	go build -v -ldflags="-X main.appVersion=$(git describe --all | cut -c7-32)
var appVersion = "undefined"
var fileLogging commonGo.FileLoggingHandler

var (
	helpTemplate = `NAME:
   {{.Name}} - {{.Usage}}
USAGE:
   {{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}
   {{if len .Authors}}
AUTHOR:
   {{range .Authors}}{{ . }}{{end}}
   {{end}}{{if .Commands}}
GLOBAL OPTIONS:
   {{range .VisibleFlags}}{{.}}
   {{end}}
VERSION:
   {{.Version}}
   {{end}}
`

	log = logger.GetOrCreate("generator")

	// logLevel defines the logger level
	logLevel = cli.StringFlag{
		Name: "log-level",
		Usage: "This flag specifies the logger `level(s)`. It can contain multiple comma-separated value. For example" +
			", if set to *:INFO the logs for all packages will have the INFO level. However, if set to *:INFO,engine:DEBUG" +
			" the logs for all packages will have the INFO level, excepting the engine package which will receive a DEBUG" +
			" log level.",
		Value: "*:" + logger.LogInfo.String(),
	}
	// logFile is used when the log output needs to be logged in a file
	logSaveFile = cli.BoolFlag{
		Name:  "log-save",
		Usage: "Boolean option for enabling log saving. If set, it will automatically save all the logs into a file.",
	}
	// workingDirectory defines a flag for the path for the working directory.
	workingDirectory = cli.StringFlag{
		Name:  "working-directory",
		Usage: "This flag specifies the `directory` where the generator will store its logs.",
		Value: "",
	}
	days = cli.IntFlag{
		Name:  "days",
		Usage: "The number of past days to generate, one metric per day.",
		Value: defaultDays,
	}
	reset = cli.BoolFlag{
		Name:  "reset",
		Usage: "Delete every stored metric and notification before generating.",
	}
	connection = cli.StringFlag{
		Name:   "connection",
		Usage:  "The store `connection` string: sqlite://<dir>, postgres://... or mysql://...",
		Value:  storage.DefaultConnection,
		EnvVar: "STORE_CONNECTION",
	}
	database = cli.StringFlag{
		Name:   "database",
		Usage:  "The database `name`.",
		Value:  storage.DefaultDatabaseName,
		EnvVar: "DB_NAME",
	}
	seed = cli.Uint64Flag{
		Name:  "seed",
		Usage: "The random seed. 0 uses a time based seed.",
		Value: 0,
	}
	templatesFile = cli.StringFlag{
		Name:  "templates",
		Usage: "Optional `path` to a YAML event catalog replacing the built-in one.",
		Value: "",
	}
)

func main() {
	// loaded before parsing so the flags can pick the values through their env vars
	err := commonGo.LoadEnvFile(envFile)
	if err != nil {
		log.Warn("could not load the env file", "file", envFile, "error", err)
	}

	app := cli.NewApp()
	cli.AppHelpTemplate = helpTemplate
	app.Name = "Monitoring data generator"
	app.Version = fmt.Sprintf("%s/%s/%s-%s", appVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	app.Usage = "This tool fills the store with a window of synthetic metrics and notifications"
	app.Flags = []cli.Flag{
		logLevel,
		logSaveFile,
		workingDirectory,
		days,
		reset,
		connection,
		database,
		seed,
		templatesFile,
	}
	app.Authors = []cli.Author{
		{
			Name:  "Salvatore Bevilacqua",
			Email: "",
		},
	}

	app.Action = run

	defer func() {
		if fileLogging != nil {
			_ = fileLogging.Close()
		}
	}()

	err = app.Run(os.Args)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	saveLogFile := ctx.GlobalBool(logSaveFile.Name)
	workingDir := ctx.GlobalString(workingDirectory.Name)

	err := logger.SetLogLevel(ctx.GlobalString(logLevel.Name))
	if err != nil {
		return err
	}

	fileLogging, err = commonGo.AttachFileLogger(log, defaultLogsPath, logFilePrefix, saveLogFile, workingDir)
	if err != nil {
		return err
	}

	numDays := ctx.GlobalInt(days.Name)
	if numDays <= 0 {
		return errors.New("--days must be greater than 0")
	}

	log.Info("Starting generator", "version", appVersion, "days", numDays, "reset", ctx.GlobalBool(reset.Name))

	components, err := factory.NewComponentsHandler(factory.ArgsComponentsHandler{
		Connection:    ctx.GlobalString(connection.Name),
		DatabaseName:  ctx.GlobalString(database.Name),
		Days:          numDays,
		Reset:         ctx.GlobalBool(reset.Name),
		Seed:          ctx.GlobalUint64(seed.Name),
		TemplatesPath: ctx.GlobalString(templatesFile.Name),
	})
	if err != nil {
		return err
	}
	defer components.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := components.Process(runCtx)
	if err != nil {
		return err
	}

	log.Info("Generation completed",
		"metrics", result.MetricsInserted,
		"notifications", result.NotificationsInserted,
		"failures", result.Failures,
	)

	return nil
}
