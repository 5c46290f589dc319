package providers

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"sbbd/internal/structures"
)

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeGet
	TypePost
)

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

// GetLogTypeByRequestType routes request logs into per-verb files. Everything
// that is not a POST shares the read log.
func GetLogTypeByRequestType(method string) TypeEnum {
	if method == "POST" {
		return TypePost
	}
	return TypeGet
}

var logFileNames = map[TypeEnum]string{
	TypeApp:  "app.log",
	TypeGet:  "get.log",
	TypePost: "post.log",
}

type LogProvider struct {
	files   map[TypeEnum]*os.File
	loggers map[TypeEnum]zerolog.Logger
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, err
	}

	mode := os.FileMode(conf.Logger.Mode)
	files := make(map[TypeEnum]*os.File, len(logFileNames))
	loggers := make(map[TypeEnum]zerolog.Logger, len(logFileNames))

	for t, name := range logFileNames {
		file, err := os.OpenFile(filepath.Join(conf.Logger.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, mode)
		if err != nil {
			for _, opened := range files {
				opened.Close()
			}
			return nil, err
		}
		files[t] = file

		var out io.Writer = file
		if conf.Debug {
			out = zerolog.MultiLevelWriter(file, zerolog.ConsoleWriter{Out: os.Stderr})
		}
		loggers[t] = zerolog.New(out).Level(level).With().Timestamp().Logger()
	}

	return &LogProvider{files: files, loggers: loggers}, nil
}

func (l *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	logger := l.loggers[t]
	logger.Error().Msgf(format, args...)
}

func (l *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	logger := l.loggers[t]
	logger.Warn().Msgf(format, args...)
}

func (l *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	logger := l.loggers[t]
	logger.Debug().Msgf(format, args...)
}

func (l *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	logger := l.loggers[t]
	logger.Info().Msgf(format, args...)
}

func (l *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	logger := l.loggers[t]
	logger.WithLevel(zerolog.FatalLevel).Msgf(format, args...)
}

func (l *LogProvider) Close() {
	for _, file := range l.files {
		file.Close()
	}
}
