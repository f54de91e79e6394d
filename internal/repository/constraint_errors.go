package repository

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// These rely on gorm.Config.TranslateError, which turns driver specific
// errors (MySQL 1062, 1452) into the GORM sentinels.

func isUniqueConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}
