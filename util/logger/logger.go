package logger

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/op/go-logging"
)

var levels = map[string]logging.Level{
	"CRITICAL": logging.CRITICAL,
	"ERROR":    logging.ERROR,
	"WARNING":  logging.WARNING,
	"NOTICE":   logging.NOTICE,
	"INFO":     logging.INFO,
	"DEBUG":    logging.DEBUG,
}

/*
InitLogger creates and returns a logger suitable for logging
human-readable message. Also returns the path to the log file.
If logDir is empty, the log goes to stdout and the path is "".
*/
func InitLogger(logDir string, logLevel logging.Level) (*logging.Logger, string) {
	processName := path.Base(os.Args[0])
	var writer io.Writer = os.Stdout
	filename := ""
	if logDir != "" {
		filename = filepath.Join(logDir, fmt.Sprintf("%s.log", processName))
		file, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open log file '%s': %v\n", filename, err)
			os.Exit(1)
		}
		writer = file
	}
	return newLogger(processName, writer, logLevel), filename
}

// DiscardLogger returns a logger that writes nowhere. Use it in tests.
func DiscardLogger(module string) *logging.Logger {
	return newLogger(module, io.Discard, logging.ERROR)
}

// LevelFromString converts a level name such as "INFO" to a
// logging.Level. Unknown names return INFO.
func LevelFromString(name string) logging.Level {
	if level, ok := levels[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return level
	}
	return logging.INFO
}

func newLogger(module string, writer io.Writer, logLevel logging.Level) *logging.Logger {
	log := logging.MustGetLogger(module)
	format := logging.MustStringFormatter("[%{level}] %{message}")
	backend := logging.NewLogBackend(writer, "", stdlog.LstdFlags|stdlog.LUTC)
	formatted := logging.NewBackendFormatter(backend, format)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logLevel, module)
	log.SetBackend(leveled)
	return log
}
