package app

import (
	"context"
	"log"
	"os"
	"time"

	"campus-connect/internal/ai"
	"campus-connect/internal/config"
	"campus-connect/internal/database"
	"campus-connect/internal/database/migration"
	dbpostgres "campus-connect/internal/database/postgres"
	"campus-connect/internal/infrastructure/cache"
	"campus-connect/internal/mail"
	"campus-connect/internal/video"
	"campus-connect/internal/ws"
)

// Container owns the process-wide collaborators: connections, the websocket
// hub and the optional external services. Everything here is safe for
// concurrent use and lives for the whole process.
type Container struct {
	Config   config.Config
	Logger   *log.Logger
	DB       database.DB
	Cache    *cache.Redis
	Hub      *ws.Hub
	Mailer   mail.Mailer
	Video    video.Service
	Rescorer ai.Rescorer
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.LUTC)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	runner := migration.Runner{Dir: cfg.Database.MigrationsDir}
	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, err
	}

	hub := ws.NewHub(logger)
	go hub.Run()

	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  cache.NewRedis(cfg.Redis, logger),
		Hub:    hub,
		Mailer: mail.NewSMTPMailer(cfg.Mail, logger),
		Video:  video.NewTokenService(cfg.Video),
	}

	// The AI collaborator is optional. Assign through the concrete pointer
	// so an unconfigured client stays a nil interface.
	if rc := ai.NewClient(cfg.Rescore); rc != nil {
		c.Rescorer = rc
	}

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
