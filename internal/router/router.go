package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/talkative-se/powerbag-backend/internal/config"
	"github.com/talkative-se/powerbag-backend/internal/middleware"
	"github.com/talkative-se/powerbag-backend/internal/modules/handler"
	"github.com/talkative-se/powerbag-backend/internal/modules/serializer"
)

type RouterDeps struct {
	Config            *config.Config
	Log               *zap.Logger
	AssetHandler      *handler.AssetHandler
	StorylineHandler  *handler.StorylineHandler
	CollectionHandler *handler.CollectionHandler
	UserHandler       *handler.UserHandler
	InfoHandler       *handler.InfoHandler
	EventHandler      *handler.EventHandler
	SettingHandler    *handler.SettingHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.ZapLogger(d.Log))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	v1 := r.Group("/api/v1")

	// Public surface: the player reads published content, visitors read the
	// about page and public settings, and the login flow lives here too.
	{
		v1.GET("/collections", d.CollectionHandler.ListCollections)
		v1.GET("/collections/:id", d.CollectionHandler.GetCollection)
		v1.GET("/storylines", d.StorylineHandler.ListStorylines)
		v1.GET("/storylines/:id", d.StorylineHandler.GetStoryline)
		v1.GET("/info", d.InfoHandler.GetInfo)
		v1.GET("/settings/public", d.SettingHandler.ListPublicSettings)

		v1.POST("/users/login", d.UserHandler.Login)
		v1.POST("/users/send-totp", d.UserHandler.SendLoginCode)
		v1.GET("/users/check-email/:email", d.UserHandler.CheckEmail)
	}

	authed := v1.Group("")
	authed.Use(middleware.Auth(d.Config))
	{
		assets := authed.Group("/assets")
		{
			assets.GET("", d.AssetHandler.ListAssets)
			assets.POST("/:type", d.AssetHandler.UploadAsset)
			assets.POST("/:type/batch", d.AssetHandler.UploadAssets)
			assets.GET("/:id", d.AssetHandler.GetAsset)
			assets.PATCH("/:id", d.AssetHandler.UpdateAsset)
			assets.DELETE("/:id", d.AssetHandler.DeleteAsset)
			assets.DELETE("", d.AssetHandler.DeleteAllAssets)
		}

		storylines := authed.Group("/storylines")
		{
			storylines.POST("", d.StorylineHandler.CreateStoryline)
			storylines.PATCH("/:id", d.StorylineHandler.UpdateStoryline)
			storylines.DELETE("/:id", d.StorylineHandler.DeleteStoryline)
			storylines.POST("/:id/migrate", d.StorylineHandler.MigrateStoryline)
		}

		collections := authed.Group("/collections")
		{
			collections.POST("", d.CollectionHandler.CreateCollection)
			collections.PATCH("/:id", d.CollectionHandler.UpdateCollection)
			collections.DELETE("/:id", d.CollectionHandler.DeleteCollection)

			collections.GET("/:id/storylines", d.CollectionHandler.ListCollectionStorylines)
			collections.POST("/:id/storylines/:storylineId", d.CollectionHandler.AddStoryline)
			collections.DELETE("/:id/storylines/:storylineId", d.CollectionHandler.RemoveStoryline)

			collections.POST("/:id/publish", d.CollectionHandler.PublishCollection)
			collections.POST("/:id/duplicate", d.CollectionHandler.DuplicateCollection)
			collections.GET("/:id/compare", d.CollectionHandler.CompareVersions)
		}

		authed.PUT("/info", d.InfoHandler.UpdateInfo)
		authed.GET("/events", d.EventHandler.ListEvents)

		settings := authed.Group("/settings")
		{
			settings.GET("", d.SettingHandler.ListSettings)
			settings.GET("/:key", d.SettingHandler.GetSetting)
			settings.PUT("", d.SettingHandler.UpsertSetting)
		}

		admin := authed.Group("/users")
		admin.Use(middleware.AdminOnly())
		{
			admin.GET("", d.UserHandler.ListUsers)
			admin.POST("", d.UserHandler.CreateUser)
			admin.GET("/:id", d.UserHandler.GetUser)
			admin.DELETE("/:id", d.UserHandler.DeleteUser)
		}
	}
	return r
}
