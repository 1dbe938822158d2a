package bootstrap

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/talkative-se/powerbag-backend/internal/config"
	"github.com/talkative-se/powerbag-backend/internal/infra/blob"
	"github.com/talkative-se/powerbag-backend/internal/infra/cache"
	"github.com/talkative-se/powerbag-backend/internal/infra/db"
	"github.com/talkative-se/powerbag-backend/internal/infra/logger"
	"github.com/talkative-se/powerbag-backend/internal/infra/mailer"
	mq "github.com/talkative-se/powerbag-backend/internal/infra/queue"
	"github.com/talkative-se/powerbag-backend/internal/modules/handler"
	"github.com/talkative-se/powerbag-backend/internal/modules/model"
	"github.com/talkative-se/powerbag-backend/internal/modules/repo"
	"github.com/talkative-se/powerbag-backend/internal/modules/service"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			_ = d.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto")

			_ = d.AutoMigrate(
				&model.User{},
				&model.Asset{},
				&model.Collection{},
				&model.Storyline{},
				&model.Info{},
				&model.Event{},
				&model.Setting{},
			)
		}
		return d, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(cfg)
	})

	// RabbitMQ publisher, optional: without a broker URL publish events are
	// simply skipped.
	do.Provide(inj, func(i *do.Injector) (*mq.Publisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.RabbitMQ.URL == "" {
			return nil, nil
		}
		conn, err := amqp.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			return nil, err
		}
		return mq.NewPublisher(conn, do.MustInvoke[*zap.Logger](i))
	})

	// S3
	do.Provide(inj, func(i *do.Injector) (*blob.S3Deps, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return blob.NewS3(context.Background(), cfg)
	})

	// Mailer
	do.Provide(inj, func(i *do.Injector) (*mailer.Mailer, error) {
		return mailer.New(do.MustInvoke[*config.Config](i)), nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.AssetRepo, error) {
		return repo.NewAssetRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.StorylineRepo, error) {
		return repo.NewStorylineRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.CollectionRepo, error) {
		return repo.NewCollectionRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.UserRepo, error) {
		return repo.NewUserRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.InfoRepo, error) {
		return repo.NewInfoRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.EventRepo, error) {
		return repo.NewEventRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.SettingRepo, error) {
		return repo.NewSettingRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.AssetService, error) {
		return service.NewAssetService(
			do.MustInvoke[repo.AssetRepo](i),
			do.MustInvoke[*blob.S3Deps](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.StorylineService, error) {
		return service.NewStorylineService(
			do.MustInvoke[repo.StorylineRepo](i),
			do.MustInvoke[repo.AssetRepo](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.CollectionService, error) {
		return service.NewCollectionService(
			do.MustInvoke[repo.CollectionRepo](i),
			do.MustInvoke[service.StorylineService](i),
			do.MustInvoke[repo.StorylineRepo](i),
			do.MustInvoke[repo.AssetRepo](i),
			do.MustInvoke[*mq.Publisher](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.UserService, error) {
		return service.NewUserService(
			do.MustInvoke[repo.UserRepo](i),
			do.MustInvoke[*redis.Client](i),
			do.MustInvoke[*mailer.Mailer](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.InfoService, error) {
		return service.NewInfoService(do.MustInvoke[repo.InfoRepo](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.EventService, error) {
		return service.NewEventService(do.MustInvoke[repo.EventRepo](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.SettingService, error) {
		return service.NewSettingService(
			do.MustInvoke[repo.SettingRepo](i),
			do.MustInvoke[repo.CollectionRepo](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.AssetHandler, error) {
		return handler.NewAssetHandler(do.MustInvoke[service.AssetService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.StorylineHandler, error) {
		return handler.NewStorylineHandler(do.MustInvoke[service.StorylineService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.CollectionHandler, error) {
		return handler.NewCollectionHandler(do.MustInvoke[service.CollectionService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.UserHandler, error) {
		return handler.NewUserHandler(do.MustInvoke[service.UserService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.InfoHandler, error) {
		return handler.NewInfoHandler(do.MustInvoke[service.InfoService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.EventHandler, error) {
		return handler.NewEventHandler(do.MustInvoke[service.EventService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.SettingHandler, error) {
		return handler.NewSettingHandler(do.MustInvoke[service.SettingService](i)), nil
	})
	return inj
}
