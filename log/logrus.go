package log

import "github.com/sirupsen/logrus"

var currLevel = LevelInfo

var rootLogger = &logrusLogger{
	backend: logrus.New(),
}

var logrusLevels = map[Level]logrus.Level{
	LevelTrace: logrus.TraceLevel,
	LevelDebug: logrus.DebugLevel,
	LevelInfo:  logrus.InfoLevel,
	LevelWarn:  logrus.WarnLevel,
	LevelError: logrus.ErrorLevel,
	LevelFatal: logrus.PanicLevel,
}

func SetLevel(level Level) {
	currLevel = level
	rootLogger.backend.(*logrus.Logger).SetLevel(logrusLevels[level])
}

type logrusLogger struct {
	backend logrus.FieldLogger
}

var _ Logger = (*logrusLogger)(nil)

func (l *logrusLogger) Trace(msg string, fields ...interface{}) {
	l.emit(LevelTrace, msg, fields)
}

func (l *logrusLogger) Debug(msg string, fields ...interface{}) {
	l.emit(LevelDebug, msg, fields)
}

func (l *logrusLogger) Info(msg string, fields ...interface{}) {
	l.emit(LevelInfo, msg, fields)
}

func (l *logrusLogger) Warn(msg string, fields ...interface{}) {
	l.emit(LevelWarn, msg, fields)
}

func (l *logrusLogger) Error(msg string, fields ...interface{}) {
	l.emit(LevelError, msg, fields)
}

func (l *logrusLogger) Fatal(msg string, fields ...interface{}) {
	l.emit(LevelFatal, msg, fields)
}

func (l *logrusLogger) Sub(fields ...interface{}) Logger {
	return &logrusLogger{
		backend: l.parseFields(fields),
	}
}

func (l *logrusLogger) emit(level Level, msg string, fields []interface{}) {
	if level < currLevel {
		return
	}
	entry := l.parseFields(fields)
	switch level {
	case LevelTrace, LevelDebug:
		entry.Debug(msg)
	case LevelInfo:
		entry.Info(msg)
	case LevelWarn:
		entry.Warn(msg)
	case LevelError:
		entry.Error(msg)
	case LevelFatal:
		entry.Fatal(msg)
	}
}

func (l *logrusLogger) parseFields(fields []interface{}) logrus.FieldLogger {
	if len(fields) == 0 {
		return l.backend
	}
	if len(fields)%2 != 0 {
		panic("must specify arguments as tuples")
	}

	lFields := make(logrus.Fields)
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			panic("argument keys must be strings")
		}
		lFields[key] = fields[i+1]
	}
	return l.backend.WithFields(lFields)
}
