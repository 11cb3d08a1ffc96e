// Package logger builds arbor loggers for the participant CLI and for
// services constructed from configuration.
package logger

import (
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	arborcommon "github.com/ternarybob/arbor/common"
	"github.com/ternarybob/arbor/models"
)

const defaultTimeFormat = "15:04:05.000"

// Options controls writer setup. Zero values select info level, JSON output
// and console only.
type Options struct {
	Level      string
	Format     string
	TimeFormat string
	File       string
}

// New returns a logger writing to the console and, when File is set, to
// that file as well.
func New(opts Options) arbor.ILogger {
	logger := arbor.NewLogger().WithConsoleWriter(writerConfig(opts, models.LogWriterTypeConsole, ""))
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			logger.Warn().Err(err).Str("file", opts.File).Msg("Failed to create log directory")
		} else {
			logger = logger.WithFileWriter(writerConfig(opts, models.LogWriterTypeFile, opts.File))
		}
	}
	level := opts.Level
	if level == "" {
		level = "info"
	}
	return logger.WithLevelFromString(level)
}

// Stop flushes buffered log entries.
func Stop() {
	arborcommon.Stop()
}

func writerConfig(opts Options, writerType models.LogWriterType, filename string) models.WriterConfiguration {
	timeFormat := defaultTimeFormat
	if opts.TimeFormat != "" {
		timeFormat = opts.TimeFormat
	}
	outputType := models.OutputFormatJSON
	if opts.Format == "text" {
		outputType = models.OutputFormatLogfmt
	}
	return models.WriterConfiguration{
		Type:       writerType,
		FileName:   filename,
		TimeFormat: timeFormat,
		OutputType: outputType,
	}
}
