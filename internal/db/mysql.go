package db

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"blog/internal/logger"
	"blog/internal/model"
)

// NewMySQL returns a connected GORM DB instance. Driver errors are translated
// into GORM sentinels (ErrDuplicatedKey, ErrForeignKeyViolated) so that
// repositories can rely on database constraints.
func NewMySQL(dsn string, log *logger.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), Config(log))
	if err != nil {
		return nil, errors.Wrap(err, "connect mysql")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql db")
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Config is the gorm configuration shared by the server and the tests.
func Config(log *logger.Logger) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(log),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Migrate creates or updates the schema. With reset set, existing tables are
// dropped first, children before parents.
func Migrate(db *gorm.DB, reset bool, log *logger.Logger) error {
	if reset {
		log.Warnw("dropping all tables")
		for _, table := range []any{&model.Post{}, &model.User{}} {
			if err := db.Migrator().DropTable(table); err != nil {
				log.Warnw("drop table failed, it may not exist", "err", err)
			}
		}
	}

	if err := db.AutoMigrate(&model.User{}, &model.Post{}); err != nil {
		return errors.Wrap(err, "auto-migrate")
	}
	return nil
}
