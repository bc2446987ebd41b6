package main

import (
	"os"

	"etudia/config"
	"etudia/handler"
	"etudia/logger"
	"etudia/middleware"
	"etudia/usecase"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	configPath string
	appConfig  *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "etudia",
	Short:         "Course notes API with question answering over notes",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is normal outside development.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			logger.Warn().Err(err).Msg("failed to load .env file")
		}

		path := configPath
		if path == "" {
			path = os.Getenv("CONFIG_PATH")
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		logger.Configure(logger.Config{
			Level:  cfg.Logging.Level,
			Pretty: cfg.Logging.Pretty,
		})
		gin.SetMode(cfg.Server.Mode)

		appConfig = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (default $CONFIG_PATH)")
}

// deps are the handlers' dependencies.
type deps struct {
	notes  *usecase.NotesService
	users  *usecase.UserService
	ask    *usecase.AskService
	health *handler.HealthHandler
}

func setupRouter(cfg *config.Config, svc *deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.EnhancedRecoveryMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.RequestLoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestSizeLimiter(cfg.Server.MaxBodyBytes))

	notes := router.Group("/notes")
	{
		notes.GET("/", func(c *gin.Context) {
			handler.ListNotesHandler(c, svc.notes)
		})
		notes.POST("/", middleware.RequireJSONBody(), func(c *gin.Context) {
			handler.CreateNoteHandler(c, svc.notes)
		})
		notes.GET("/:slug", func(c *gin.Context) {
			handler.GetNoteHandler(c, svc.notes)
		})
		notes.PUT("/:slug", middleware.RequireJSONBody(), func(c *gin.Context) {
			handler.UpdateNoteHandler(c, svc.notes)
		})
		notes.DELETE("/:slug", func(c *gin.Context) {
			handler.DeleteNoteHandler(c, svc.notes)
		})
	}

	users := router.Group("/users")
	{
		users.POST("/", middleware.RequireJSONBody(), func(c *gin.Context) {
			handler.CreateUserHandler(c, svc.users)
		})
		users.GET("/:phone", func(c *gin.Context) {
			handler.GetUserHandler(c, svc.users)
		})
		users.PUT("/:phone", middleware.RequireJSONBody(), func(c *gin.Context) {
			handler.UpdateUserHandler(c, svc.users)
		})
		users.DELETE("/:phone", func(c *gin.Context) {
			handler.DeleteUserHandler(c, svc.users)
		})
		users.GET("/:phone/notes", func(c *gin.Context) {
			handler.ListUserNotesHandler(c, svc.notes)
		})
		users.POST("/:phone/otp/verify", middleware.RequireJSONBody(), func(c *gin.Context) {
			handler.VerifyOTPHandler(c, svc.users)
		})
	}

	router.POST("/ask", middleware.CacheControlMiddleware("no-store"), middleware.RequireJSONBody(), func(c *gin.Context) {
		handler.AskHandler(c, svc.ask)
	})

	router.GET("/health", middleware.CacheControlMiddleware("no-store"), svc.health.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
