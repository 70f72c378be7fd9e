package main

import (
	"context"
	"fmt"
	"os"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/thicket-social/thicket-be/app"
	"github.com/thicket-social/thicket-be/config"
	"github.com/thicket-social/thicket-be/controllers"
	"github.com/thicket-social/thicket-be/db/mysql"
	"github.com/thicket-social/thicket-be/middleware"
	"github.com/thicket-social/thicket-be/model"
	"github.com/thicket-social/thicket-be/routes"
)

func main() {
	cfg, err := config.Load(os.Getenv("THICKET_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error loading config:", err)
		os.Exit(1)
	}
	log := buildLogger(cfg)

	database, err := mysql.GetDatabase(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to the database")
	}
	defer database.Close()

	if err := configureFirebaseCredentials(log); err != nil {
		log.Fatal().Err(err).Msg("error configuring firebase credentials")
	}
	firebaseApp, err := firebase.NewApp(context.Background(), nil)
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing firebase")
	}
	authClient, err := firebaseApp.Auth(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing auth client")
	}

	site := &model.SiteConfig{
		Name:           cfg.Site.Name,
		ContentWarning: cfg.Site.ContentWarning,
	}
	commentService := app.NewCommentService(database, site)

	communityController, err := controllers.NewCommunityController(context.Background(), database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing the community controller")
	}

	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.Origins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	routes.AddHealthCheckRoutes(&r.RouterGroup)
	routes.AddCommentRoutes(&r.RouterGroup, database, commentService, authClient)
	routes.AddCommunityRoutes(&r.RouterGroup, database, communityController, authClient)
	routes.AddUserRoutes(&r.RouterGroup, database, authClient)

	if err := r.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		log.Fatal().Err(err).Msg("error running web server")
	}
}

func buildLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var out = os.Stderr
	logger := zerolog.New(out)
	if cfg.Log.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

const (
	CredentialsPathEnvVar = "GOOGLE_APPLICATION_CREDENTIALS"
	CredentialsJsonEnvVar = "GOOGLE_APPLICATION_CREDENTIALS_JSON"
	TargetCredentialsFile = "./google-application-credentials.json"
)

func configureFirebaseCredentials(log zerolog.Logger) error {
	credentialsPath, hasCredentialsPath := os.LookupEnv(CredentialsPathEnvVar)
	if hasCredentialsPath {
		log.Info().Str("path", credentialsPath).Msg("credentials path detected in env")
		return nil
	}
	credentialsJson, hasCredentialsJson := os.LookupEnv(CredentialsJsonEnvVar)
	if hasCredentialsJson {
		log.Info().Msg("credentials JSON string detected in env")
		err := os.WriteFile(TargetCredentialsFile, []byte(credentialsJson), 400)
		if err != nil {
			return fmt.Errorf("error writing credentials to temp file, %w", err)
		}
		err = os.Setenv(CredentialsPathEnvVar, TargetCredentialsFile)
		if err != nil {
			return fmt.Errorf("error setting %v env var %w", CredentialsPathEnvVar, err)
		}
		return nil
	}
	return fmt.Errorf("must specify either %v (a path)"+
		" or %v (credentials as JSON string)", CredentialsPathEnvVar, CredentialsJsonEnvVar)
}
