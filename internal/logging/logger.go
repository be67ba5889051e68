package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName   string
	LogToStdout   bool
	LogLevel      string
	LogFormatJSON bool
}

// Setup configures the standard logrus logger and returns it. Logs go to
// STDOUT unless a file name is given; files are rotated by lumberjack.
func Setup(params LoggerSetupParams) *logrus.Logger {
	logger := logrus.StandardLogger()
	configure(logger, params)
	return logger
}

func configure(logger *logrus.Logger, params LoggerSetupParams) {
	if params.LogFormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logger.SetLevel(GetLevel(params.LogLevel))

	if params.LogFileName == "" {
		logger.SetOutput(os.Stdout)
		logger.Debugln("writing logs only to STDOUT")
		return
	}

	logger.SetOutput(fileWriter(params))
	if params.LogToStdout {
		logger.Debugln("writing logs to file and STDOUT")
	}
}

func fileWriter(params LoggerSetupParams) io.Writer {
	name := params.LogFileName
	if !strings.HasSuffix(name, ".log") {
		name += ".log"
	}

	rotating := &lumberjack.Logger{
		Filename:  name,
		MaxSize:   50, // megabytes
		LocalTime: false,
		Compress:  true,
	}

	if params.LogToStdout {
		return io.MultiWriter(os.Stdout, rotating)
	}
	return rotating
}

// GetLevel maps a config string to a level. Unknown values fall back to info.
func GetLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}
