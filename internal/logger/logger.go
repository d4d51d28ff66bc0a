package logger

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	logrus "github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

var output io.Writer = os.Stdout

// Setup initializes Logrus to write to stdout and a rotating file.
// An empty filename keeps logging on stdout only.
func Setup(filename, level string) io.Writer {
	output = os.Stdout
	if filename != "" {
		rotator := &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    10, // megabytes
			MaxBackups: 7,
			MaxAge:     7, // days
			Compress:   true,
		}
		output = io.MultiWriter(os.Stdout, rotator)
	}

	logrus.SetOutput(output)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
		logrus.WithField("level", level).Warn("unknown LOG_LEVEL, falling back to info")
	}
	logrus.SetLevel(lvl)

	return output
}

// Writer returns the destination configured by Setup, used by the access log.
func Writer() io.Writer {
	return output
}

// GormLogger routes GORM's SQL logging through the standard Logrus logger.
// SQL statements are only traced when Logrus runs at debug level.
func GormLogger() gormlogger.Interface {
	level := gormlogger.Warn
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		level = gormlogger.Info
	}
	return gormlogger.New(logrus.StandardLogger(), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
