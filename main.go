package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"fjacquet/taxstmt/cmd/batch"
	"fjacquet/taxstmt/cmd/detect"
	"fjacquet/taxstmt/cmd/normalize"
	"fjacquet/taxstmt/cmd/parsers"
	"fjacquet/taxstmt/cmd/root"
	"fjacquet/taxstmt/internal/config"
	"fjacquet/taxstmt/internal/logging"
)

func init() {
	// Environment first so TAXSTMT_LOG_LEVEL from .env applies before any logging.
	config.LoadEnv(nil)
	logrus.SetLevel(envLogLevel())

	root.Init()

	root.Cmd.AddCommand(normalize.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(detect.Cmd)
	root.Cmd.AddCommand(parsers.Cmd)
}

// envLogLevel reads the log level from the environment, defaulting to info.
func envLogLevel() logrus.Level {
	raw := os.Getenv(config.EnvPrefix + "_LOG_LEVEL")
	if raw == "" {
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func main() {
	err := root.Cmd.Execute()
	if root.AppContainer != nil {
		if cerr := root.AppContainer.Close(); cerr != nil {
			root.Log.Warn("Failed to close container", logging.F(logging.FieldError, cerr.Error()))
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
