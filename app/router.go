// Package app wires the HTTP surface on top of the service layer
package app

import (
	"fmt"
	"time"

	"selfvault/file-api/app/category"
	"selfvault/file-api/app/file"
	"selfvault/file-api/app/public"
	"selfvault/file-api/app/root"
	"selfvault/file-api/app/share"
	"selfvault/file-api/app/user"
	"selfvault/file-api/db"
	"selfvault/file-api/internal"
	"selfvault/file-api/pkg/middleware"
	"selfvault/file-api/storage"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var cacheStore = persist.NewMemoryStore(time.Minute)

func NewRouter() (*gin.Engine, error) {
	makeLogger()

	conn, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	store, err := storage.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize blob storage, %w", err)
	}

	d := internal.NewDeps(conn, store)

	router := gin.New()
	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors_origins"),
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("user_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 5 << 20

	auth := middleware.NewAuthMiddleware(middleware.NewJWTIdentity())
	maxUploadSize := viper.GetInt64("upload.max_size")

	publicRate := viper.GetInt("security.public_rate_limit")
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: publicRate,
		Burst:             publicRate * 2,
	})

	m := router.Group("/api")
	{
		// HEAD /api/heartbeat 			-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)
	}

	u := m.Group("/users/me", auth)
	{
		// GET /api/users/me			-> Returns the caller's profile and storage usage
		u.GET("", func(c *gin.Context) { user.Fetch(c, d) })

		// PATCH /api/users/me			-> Updates the caller's display name
		u.PATCH("", func(c *gin.Context) { user.Edit(c, d) })

		// GET /api/users/me/settings		-> Returns the caller's settings
		u.GET("/settings", func(c *gin.Context) { user.FetchSettings(c, d) })

		// PATCH /api/users/me/settings		-> Updates the caller's settings
		u.PATCH("/settings", func(c *gin.Context) { user.EditSettings(c, d) })
	}

	f := m.Group("/files", auth)
	{
		// GET /api/files			-> Lists the caller's files (paged, filterable)
		f.GET("", func(c *gin.Context) { file.FetchBulk(c, d) })

		// POST /api/files/upload		-> Uploads a new file
		f.POST("/upload", middleware.BodySizeLimiter(maxUploadSize), func(c *gin.Context) { file.Upload(c, d) })

		// GET /api/files/:id			-> Returns one file's metadata
		f.GET("/:id", func(c *gin.Context) { file.Fetch(c, d) })

		// GET /api/files/:id/download		-> Streams the file's content to its owner
		f.GET("/:id/download", func(c *gin.Context) { file.Download(c, d) })

		// GET /api/files/:id/url		-> Mints a time-limited direct URL for the owner
		f.GET("/:id/url", func(c *gin.Context) { file.SignedURL(c, d) })

		// PATCH /api/files/:id			-> Updates a file's metadata
		f.PATCH("/:id", func(c *gin.Context) { file.Edit(c, d) })

		// DELETE /api/files/:id		-> Deletes a file and its blob
		f.DELETE("/:id", func(c *gin.Context) { file.Delete(c, d) })

		// POST /api/files/:id/share		-> Creates or rotates a share link
		f.POST("/:id/share", func(c *gin.Context) { share.Create(c, d) })

		// GET /api/files/:id/share		-> Returns the file's share state
		f.GET("/:id/share", func(c *gin.Context) { share.Info(c, d) })

		// DELETE /api/files/:id/share		-> Revokes the share link
		f.DELETE("/:id/share", func(c *gin.Context) { share.Revoke(c, d) })
	}

	cat := m.Group("/categories", auth)
	{
		// GET /api/categories			-> Lists the caller's categories with file counts
		cat.GET("", func(c *gin.Context) { category.List(c, d) })

		// POST /api/categories			-> Creates a category
		cat.POST("", func(c *gin.Context) { category.Create(c, d) })

		// PATCH /api/categories/:id		-> Renames or recolors a category
		cat.PATCH("/:id", func(c *gin.Context) { category.Edit(c, d) })

		// DELETE /api/categories/:id		-> Deletes a category, orphaning its files
		cat.DELETE("/:id", func(c *gin.Context) { category.Delete(c, d) })
	}

	// Unauthenticated surface; rate limited to slow down token guessing
	p := m.Group("", rateLimiter)
	{
		// GET /api/public/files		-> Lists openly shared files
		p.GET("/public/files", cacheFor(15), func(c *gin.Context) { public.List(c, d) })

		// GET /api/share/:token		-> Returns share metadata without serving content
		p.GET("/share/:token", func(c *gin.Context) { public.Meta(c, d) })

		// GET /api/share/:token/download	-> Serves the shared file (password via query)
		p.GET("/share/:token/download", func(c *gin.Context) { public.Download(c, d) })

		// POST /api/share/:token/download	-> Serves the shared file (password via body)
		p.POST("/share/:token/download", func(c *gin.Context) { public.Download(c, d) })

		// GET /api/share/:token/url		-> Mints a time-limited direct URL for the share
		p.GET("/share/:token/url", func(c *gin.Context) { public.SignedURL(c, d) })
	}

	return router, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(cacheStore, time.Second*time.Duration(sec))
}
