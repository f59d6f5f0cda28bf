package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sakif/whisper/internal/server"
	"github.com/sakif/whisper/internal/service"
)

// CLI is the full command line. Flags shared by every command live on the
// root so they can be given before or after the command name.
type CLI struct {
	LogLevel string `help:"Log level: debug, info, warn or error." default:"info" env:"LOG_LEVEL"`
	LogFile  string `help:"Also write logs to this file, rotated at 10 MB." type:"path" env:"LOG_FILE"`

	StoreDriver string `help:"Persistence backend." enum:"sqlite,mongo" default:"sqlite" env:"STORE_DRIVER"`
	DBPath      string `help:"SQLite database file." default:"data/whisper.db" env:"DB_PATH"`
	MongoURI    string `help:"MongoDB connection string." name:"mongo-uri" env:"MONGODB_URI"`
	MongoDB     string `help:"MongoDB database name." name:"mongo-db" default:"whisper" env:"MONGO_DB"`

	Serve ServeCmd `cmd:"" default:"1" help:"Run the HTTP server."`
	Seed  SeedCmd  `cmd:"" help:"Seed the default encouragement messages into an empty pool."`
}

func (c *CLI) storeConfig() server.Config {
	return server.Config{
		StoreDriver: c.StoreDriver,
		DBPath:      c.DBPath,
		MongoURI:    c.MongoURI,
		MongoDB:     c.MongoDB,
	}
}

type appContext struct {
	logger *slog.Logger
}

// ServeCmd runs the web server until interrupted.
type ServeCmd struct {
	Port          int           `help:"HTTP port." default:"8080" env:"PORT"`
	JWTSecret     string        `help:"HMAC secret for session tokens, at least 16 characters." name:"jwt-secret" required:"" env:"JWT_SECRET"`
	SessionTTL    time.Duration `help:"Session lifetime." name:"session-ttl" default:"168h" env:"SESSION_TTL"`
	SecureCookies bool          `help:"Mark cookies Secure; enable behind HTTPS." env:"SECURE_COOKIES"`
	CORSOrigins   []string      `help:"Frontend origins allowed to call the API with credentials." name:"cors-origins" env:"CORS_ORIGINS"`
	StaticDir     string        `help:"Serve frontend files from this directory." type:"path" env:"STATIC_DIR"`

	RedisAddr     string `help:"Redis address for the session revocation list; memory when empty." env:"REDIS_ADDR"`
	RedisPassword string `help:"Redis password." env:"REDIS_PASSWORD"`

	GitHubClientID     string `help:"GitHub OAuth client id; enables GitHub login." name:"github-client-id" env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `help:"GitHub OAuth client secret." name:"github-client-secret" env:"GITHUB_CLIENT_SECRET"`
	GitHubCallbackURL  string `help:"GitHub OAuth callback URL." name:"github-callback-url" env:"GITHUB_CALLBACK_URL"`
}

// config merges the root store flags with the serve flags.
func (s *ServeCmd) config(root *CLI) server.Config {
	cfg := root.storeConfig()
	cfg.Port = s.Port
	cfg.JWTSecret = s.JWTSecret
	cfg.SessionTTL = s.SessionTTL
	cfg.SecureCookies = s.SecureCookies
	cfg.CORSOrigins = s.CORSOrigins
	cfg.StaticDir = s.StaticDir
	cfg.RedisAddr = s.RedisAddr
	cfg.RedisPassword = s.RedisPassword
	cfg.GitHubClientID = s.GitHubClientID
	cfg.GitHubClientSecret = s.GitHubClientSecret
	cfg.GitHubCallbackURL = s.GitHubCallbackURL
	if cfg.GitHubClientID != "" && cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", s.Port)
	}
	return cfg
}

func (s *ServeCmd) Run(app *appContext, root *CLI) error {
	srv, err := server.New(s.config(root), app.logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	return srv.Start()
}

// SeedCmd fills an empty encouragement pool. The server does the same at
// startup; this exists for deployments that seed before the first start.
type SeedCmd struct{}

func (s *SeedCmd) Run(app *appContext, root *CLI) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := server.OpenStore(ctx, root.storeConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := service.NewEncouragementService(store, app.logger).SeedDefaults(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		app.logger.Info("encouragement pool already populated, nothing seeded")
	}
	return nil
}

// newLogger builds the text logger on stdout, teed into a rotating file when
// logFile is set. The returned func closes the file.
func newLogger(level, logFile string) (*slog.Logger, func(), error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var out io.Writer = os.Stdout
	closeLog := func() {}
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		rotating := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotating)
		closeLog = func() { rotating.Close() }
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl})), closeLog, nil
}
