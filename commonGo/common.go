package commonGo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/multiversx/mx-chain-logger-go/file"
)

const (
	logFileLifeSpanInSec = 86400 // 24h
	logFileLifeSpanInMB  = 1024  // 1GB
)

// AttachFileLogger attaches, if required, a log file with a one day / 1GB rotation
func AttachFileLogger(
	log logger.Logger,
	defaultLogsPath string,
	logFilePrefix string,
	saveLogFile bool,
	workingDir string) (FileLoggingHandler, error) {
	err := logger.SetDisplayByteSlice(logger.ToHex)
	log.LogIfError(err)

	if !saveLogFile {
		return nil, nil
	}

	argsFileLogging := file.ArgsFileLogging{
		WorkingDir:      workingDir,
		DefaultLogsPath: defaultLogsPath,
		LogFilePrefix:   logFilePrefix,
	}
	logFile, err := file.NewFileLogging(argsFileLogging)
	if err != nil {
		return nil, fmt.Errorf("%w creating a log file", err)
	}

	err = logFile.ChangeFileLifeSpan(time.Second*logFileLifeSpanInSec, logFileLifeSpanInMB)
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}

	return logFile, nil
}

// LoadEnvFile loads the variables of an optional .env file into the process environment.
// Variables already set in the environment are not overwritten and a missing file is not an error.
func LoadEnvFile(envFile string) error {
	err := godotenv.Load(envFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

// LookupEnv returns the value of a non-empty environment variable
func LookupEnv(key string) (string, bool) {
	val := os.Getenv(key)

	return val, len(val) > 0
}

// CronJobStarter is able to start a go routine that periodically calls the provided handler. The time between calls is
// provided as timeToCall
func CronJobStarter(ctx context.Context, handler func(ctx context.Context), timeToCall time.Duration) {
	go func() {
		timer := time.NewTimer(timeToCall)
		defer timer.Stop()

		handler(ctx)

		for {
			select {
			case <-timer.C:
				handler(ctx)
				timer.Reset(timeToCall)
			case <-ctx.Done():
				return
			}
		}
	}()
}
