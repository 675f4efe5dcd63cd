package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	jsonZapEncodingStringConstant        = "json"
	consoleZapEncodingStringConstant     = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
	consoleMessageKeyConstant            = "message"
	logFileMaxSizeMegabytesConstant      = 10
	logFileMaxBackupsConstant            = 3
	logFileMaxAgeDaysConstant            = 28
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct {
	consoleWriter io.Writer
	logFilePath   string
}

// LoggerOutputs pairs the diagnostic logger with the message-only console logger used for human-readable command echoes.
type LoggerOutputs struct {
	DiagnosticLogger *zap.Logger
	ConsoleLogger    *zap.Logger
}

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

var logFormatEncodingMapping = map[LogFormat]string{
	LogFormatStructured: jsonZapEncodingStringConstant,
	LogFormatConsole:    consoleZapEncodingStringConstant,
}

// NewLoggerFactory constructs a logger factory whose console output goes to standard error.
func NewLoggerFactory() *LoggerFactory {
	return NewLoggerFactoryWithConsoleWriter(os.Stderr)
}

// NewLoggerFactoryWithConsoleWriter constructs a logger factory whose console output goes to consoleWriter.
func NewLoggerFactoryWithConsoleWriter(consoleWriter io.Writer) *LoggerFactory {
	if consoleWriter == nil {
		consoleWriter = os.Stderr
	}
	return &LoggerFactory{consoleWriter: consoleWriter}
}

// SetLogFilePath routes diagnostic logs to a size-rotated file; an empty path restores standard error.
func (factory *LoggerFactory) SetLogFilePath(logFilePath string) {
	if factory == nil {
		return
	}
	factory.logFilePath = strings.TrimSpace(logFilePath)
}

// CreateLogger produces a zap.Logger honoring the requested log level and format.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	zapLogLevel, levelExists := logLevelMapping[requestedLogLevel]
	if !levelExists {
		return nil, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}

	encoding, formatExists := logFormatEncodingMapping[requestedLogFormat]
	if !formatExists {
		return nil, fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}

	configuration := zap.NewProductionConfig()
	configuration.Level = zap.NewAtomicLevelAt(zapLogLevel)
	configuration.Encoding = encoding

	if len(factory.logFilePath) > 0 {
		encoder := zapcore.NewJSONEncoder(configuration.EncoderConfig)
		if requestedLogFormat == LogFormatConsole {
			encoder = zapcore.NewConsoleEncoder(configuration.EncoderConfig)
		}
		rotatingWriter := &lumberjack.Logger{
			Filename:   factory.logFilePath,
			MaxSize:    logFileMaxSizeMegabytesConstant,
			MaxBackups: logFileMaxBackupsConstant,
			MaxAge:     logFileMaxAgeDaysConstant,
		}
		return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(rotatingWriter), configuration.Level), zap.AddCaller()), nil
	}

	logger, buildError := configuration.Build()
	if buildError != nil {
		return nil, buildError
	}

	return logger, nil
}

// CreateLoggerOutputs builds the diagnostic logger plus a console logger.
// The console logger prints bare messages for the console format and discards everything for the structured format.
// Without a log file, info level in the console format limits the diagnostic logger to warnings so command echoes are not printed twice.
func (factory *LoggerFactory) CreateLoggerOutputs(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (LoggerOutputs, error) {
	diagnosticLogLevel := requestedLogLevel
	if requestedLogFormat == LogFormatConsole && requestedLogLevel == LogLevelInfo && len(factory.logFilePath) == 0 {
		diagnosticLogLevel = LogLevelWarn
	}

	diagnosticLogger, creationError := factory.CreateLogger(diagnosticLogLevel, requestedLogFormat)
	if creationError != nil {
		return LoggerOutputs{}, creationError
	}

	if requestedLogFormat != LogFormatConsole {
		return LoggerOutputs{DiagnosticLogger: diagnosticLogger, ConsoleLogger: zap.NewNop()}, nil
	}

	encoderConfiguration := zapcore.EncoderConfig{
		MessageKey:     consoleMessageKeyConstant,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfiguration),
		zapcore.AddSync(NewFlushingWriter(factory.resolveConsoleWriter())),
		logLevelMapping[requestedLogLevel],
	)

	return LoggerOutputs{DiagnosticLogger: diagnosticLogger, ConsoleLogger: zap.New(consoleCore)}, nil
}

func (factory *LoggerFactory) resolveConsoleWriter() io.Writer {
	if factory == nil || factory.consoleWriter == nil {
		return os.Stderr
	}
	return factory.consoleWriter
}
