package db

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"blog/internal/logger"
)

const defaultSlowThreshold = 200 * time.Millisecond

// gormLogger sends GORM traces to zap.
type gormLogger struct {
	log                        *logger.Logger
	level                      gormlogger.LogLevel
	slowThreshold              time.Duration
	ignoreRecordNotFoundErrors bool
}

func newGormLogger(log *logger.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if log != nil && log.Desugar().Core().Enabled(zapcore.DebugLevel) {
		level = gormlogger.Info
	}
	return &gormLogger{
		log:                        log,
		level:                      level,
		slowThreshold:              defaultSlowThreshold,
		ignoreRecordNotFoundErrors: true,
	}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cloned := *l
	cloned.level = level
	return &cloned
}

func (l *gormLogger) Info(_ context.Context, msg string, args ...any) {
	if l.level < gormlogger.Info || l.log == nil {
		return
	}
	l.log.Infow("gorm", "message", fmt.Sprintf(msg, args...))
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...any) {
	if l.level < gormlogger.Warn || l.log == nil {
		return
	}
	l.log.Warnw("gorm", "message", fmt.Sprintf(msg, args...))
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...any) {
	if l.level < gormlogger.Error || l.log == nil {
		return
	}
	l.log.Errorw("gorm", "message", fmt.Sprintf(msg, args...))
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.log == nil || l.level == gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case l.shouldLogError(err):
		sql, rows := fc()
		l.log.Errorw("gorm query failed", "elapsed", elapsed, "rows", rows, "sql", sql, "err", err)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.log.Warnw("gorm slow query", "elapsed", elapsed, "rows", rows, "sql", sql, "threshold", l.slowThreshold)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.log.Debugw("gorm query", "elapsed", elapsed, "rows", rows, "sql", sql)
	}
}

func (l *gormLogger) shouldLogError(err error) bool {
	if err == nil || l.level < gormlogger.Error {
		return false
	}
	if l.ignoreRecordNotFoundErrors && errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	return true
}
