package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"customtube/db"
	"customtube/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

//go:embed dist/*
var dist embed.FS

// Store is the keyword and ban list management the API exposes
type Store interface {
	ListKeywords(ctx context.Context) ([]models.Keyword, error)
	AddKeyword(ctx context.Context, keyword string) error
	DeleteKeyword(ctx context.Context, keyword string) error
	ListBannedChannels(ctx context.Context) ([]models.BannedChannel, error)
	BanChannel(ctx context.Context, channelName string) error
}

// FeedAssembler produces the feed served at /api/feed
type FeedAssembler interface {
	Assemble(ctx context.Context) (*models.FeedResponse, error)
}

type ServerConfig struct {
	// Keyword and ban list storage
	Store Store

	// Builds the feed
	Feed FeedAssembler

	// Value for the CORS Access-Control-Allow-Origin header
	AllowOrigin string
}

type keywordRequest struct {
	Keyword string `json:"keyword"`
}

type banRequest struct {
	ChannelName string `json:"channel_name"`
}

func jsonError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// Returns a fiber.App instance to be used as an HTTP server for the feed
func Server(config *ServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(compress.New())

	allowOrigin := config.AllowOrigin
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigin,
		AllowHeaders: "Content-Type",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	api.Get("/keywords", func(c *fiber.Ctx) error {
		keywords, err := config.Store.ListKeywords(c.UserContext())
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error listing keywords")
			return jsonError(c, fiber.StatusInternalServerError, "Error listing keywords")
		}

		// Newest first
		names := lo.Map(keywords, func(k models.Keyword, _ int) string { return k.Keyword })
		return c.JSON(lo.Reverse(names))
	})

	api.Post("/keywords", func(c *fiber.Ctx) error {
		var req keywordRequest
		if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Keyword) == "" {
			return jsonError(c, fiber.StatusBadRequest, "No keyword provided")
		}

		err := config.Store.AddKeyword(c.UserContext(), req.Keyword)
		if errors.Is(err, db.ErrDuplicate) {
			return jsonError(c, fiber.StatusBadRequest, "Keyword already exists")
		}
		if err != nil {
			log.WithFields(log.Fields{
				"keyword": req.Keyword,
				"error":   err,
			}).Error("Error adding keyword")
			return jsonError(c, fiber.StatusInternalServerError, "Error adding keyword")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Keyword added",
			"keyword": req.Keyword,
		})
	})

	api.Delete("/keywords/:keyword", func(c *fiber.Ctx) error {
		keyword, err := url.PathUnescape(c.Params("keyword"))
		if err != nil || keyword == "" {
			return jsonError(c, fiber.StatusBadRequest, "Invalid keyword")
		}

		err = config.Store.DeleteKeyword(c.UserContext(), keyword)
		if errors.Is(err, db.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "Keyword not found")
		}
		if err != nil {
			log.WithFields(log.Fields{
				"keyword": keyword,
				"error":   err,
			}).Error("Error deleting keyword")
			return jsonError(c, fiber.StatusInternalServerError, "Error deleting keyword")
		}

		return c.JSON(fiber.Map{"message": "Keyword deleted"})
	})

	api.Get("/banned_channels", func(c *fiber.Ctx) error {
		channels, err := config.Store.ListBannedChannels(c.UserContext())
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error listing banned channels")
			return jsonError(c, fiber.StatusInternalServerError, "Error listing banned channels")
		}

		return c.JSON(lo.Map(channels, func(b models.BannedChannel, _ int) string { return b.ChannelName }))
	})

	api.Post("/ban_channel", func(c *fiber.Ctx) error {
		var req banRequest
		if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.ChannelName) == "" {
			return jsonError(c, fiber.StatusBadRequest, "No channel name provided")
		}

		err := config.Store.BanChannel(c.UserContext(), req.ChannelName)
		if errors.Is(err, db.ErrDuplicate) {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Channel already banned"})
		}
		if err != nil {
			log.WithFields(log.Fields{
				"channel": req.ChannelName,
				"error":   err,
			}).Error("Error banning channel")
			return jsonError(c, fiber.StatusInternalServerError, "Error banning channel")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": fmt.Sprintf("Banned channel: %s", req.ChannelName),
		})
	})

	api.Get("/feed", func(c *fiber.Ctx) error {
		feed, err := config.Feed.Assemble(c.UserContext())
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error assembling feed")
			return jsonError(c, fiber.StatusInternalServerError, "Error assembling feed")
		}

		return c.JSON(feed)
	})

	// Serve the static UI
	app.Use("/", filesystem.New(filesystem.Config{
		Browse:     false,
		Index:      "index.html",
		Root:       http.FS(dist),
		PathPrefix: "/dist",
	}))

	return app
}
