package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"blog/internal/logger"
)

func TestGormLogger_Level(t *testing.T) {
	l := newGormLogger(logger.New(logger.DebugLevel)).(*gormLogger)
	assert.Equal(t, gormlogger.Info, l.level)

	l = newGormLogger(logger.New(logger.InfoLevel)).(*gormLogger)
	assert.Equal(t, gormlogger.Warn, l.level)

	silent := l.LogMode(gormlogger.Silent).(*gormLogger)
	assert.Equal(t, gormlogger.Silent, silent.level)
	assert.Equal(t, gormlogger.Warn, l.level, "LogMode must not mutate the receiver")
}

func TestGormLogger_ShouldLogError(t *testing.T) {
	l := newGormLogger(logger.Nop()).(*gormLogger)

	assert.False(t, l.shouldLogError(nil))
	assert.False(t, l.shouldLogError(gorm.ErrRecordNotFound))
	assert.True(t, l.shouldLogError(errors.New("connection refused")))

	l.level = gormlogger.Silent
	assert.False(t, l.shouldLogError(errors.New("connection refused")))
}
