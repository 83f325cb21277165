package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/suryastays/hotelbooking/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Log = logrus.New()

// Init configures the shared logger from config. With a file path set,
// output goes to stdout and a size-rotated file.
func Init(cfg config.LoggingConfig) {
	Log.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		Log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	}
}
