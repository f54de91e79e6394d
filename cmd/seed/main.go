package main

import (
	"context"
	"flag"

	"blog/internal/auth"
	"blog/internal/config"
	"blog/internal/db"
	"blog/internal/logger"
	"blog/internal/repository"
	"blog/internal/router"
	"blog/internal/service"
)

func main() {
	source := flag.String("source", "seed/blog.json", "seed file path or http(s) URL")
	envFile := flag.String("env", ".env", "optional env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		logger.New(logger.InfoLevel).Fatalw("load config", "err", err)
	}
	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	log.Infow("starting seed", "source", *source)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, log)
	if err != nil {
		log.Fatalw("connect database", "err", err)
	}
	if err := db.Migrate(gormDB, cfg.ResetDB, log); err != nil {
		log.Fatalw("run migrations", "err", err)
	}

	ctx := context.Background()
	data, err := loadSeed(ctx, *source)
	if err != nil {
		log.Fatalw("load seed data", "err", err)
	}

	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	users := service.NewUserService(userRepo, postRepo, auth.NewBcryptHasher(cfg.BcryptCost), nil, log)
	posts := service.NewPostService(postRepo, userRepo)

	stats, err := seed(ctx, users, posts, router.NewValidator(), data, log)
	if err != nil {
		log.Fatalw("seed failed", "err", err)
	}

	log.Infow("seed completed",
		"users_created", stats.UsersCreated,
		"users_skipped", stats.UsersSkipped,
		"users_invalid", stats.UsersInvalid,
		"posts_created", stats.PostsCreated,
		"posts_invalid", stats.PostsInvalid,
	)
}
