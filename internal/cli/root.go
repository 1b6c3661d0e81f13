package cli

import (
	"fmt"
	"time"

	"github.com/martijn/scribe/internal/core/repository"
	"github.com/martijn/scribe/internal/core/service"
	"github.com/martijn/scribe/internal/infrastructure/sqlite"
	"github.com/martijn/scribe/pkg/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Scribe - minimal blogging service",
	Long: `Scribe is a small blogging service with session-based authentication.

It provides:
- User registration and login
- Authenticated post creation
- A public post feed and per-user dashboard
- SQLite storage in a single file
- REST API with session cookies`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		// Load configuration
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/scribe/config.yml)")
}

// initServices initializes all services
func initServices() (*Services, error) {
	// Initialize database; schema bootstrap is idempotent and runs here,
	// before anything else can reach the store
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repositories
	userRepo := sqlite.NewUserRepository(db)
	postRepo := sqlite.NewPostRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)

	// Initialize services
	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	authService := service.NewAuthService(userRepo, sessionRepo, cfg.JWTSecretKey, cfg.JWTAlgorithm, sessionTTL)
	postService := service.NewPostService(postRepo, userRepo)

	return &Services{
		DB:          db,
		UserRepo:    userRepo,
		PostRepo:    postRepo,
		SessionRepo: sessionRepo,
		AuthService: authService,
		PostService: postService,
	}, nil
}

// Services holds all initialized services
type Services struct {
	DB          *sqlite.DB
	UserRepo    repository.UserRepository
	PostRepo    repository.PostRepository
	SessionRepo repository.SessionRepository
	AuthService *service.AuthService
	PostService *service.PostService
}

// Close closes all resources
func (s *Services) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}
