package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/motoki/aniterm/internal/api"
	"github.com/motoki/aniterm/internal/config"
	"github.com/motoki/aniterm/internal/domain"
	"github.com/motoki/aniterm/internal/log"
	"github.com/motoki/aniterm/internal/player"
	"github.com/motoki/aniterm/internal/service"
	"github.com/motoki/aniterm/internal/storage"
	"github.com/motoki/aniterm/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var (
		showVersion bool
		register    bool
		uploadPath  string
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&register, "register", false, "create a new account")
	flag.StringVar(&uploadPath, "upload", "", "upload a media file and print its public URL")
	flag.Parse()

	if showVersion {
		fmt.Printf("aniterm %s\n", Version)
		return
	}

	if err := run(register, uploadPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(register bool, uploadPath string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting aniterm", "version", Version)

	if !cfg.IsConfigured() {
		return runSetupFlow(cfg, logger)
	}

	if uploadPath != "" {
		return runUpload(cfg, uploadPath, logger)
	}

	tokens := config.NewTokenStore(cfg)
	client := api.NewClient(cfg.Server.URL, tokens, logger)

	cache := service.NewCache(service.DefaultStaleAfter, logger)
	catalog := service.NewCatalogService(
		api.NewAnimeRepo(client),
		api.NewSeasonRepo(client),
		api.NewEpisodeRepo(client),
		cache,
		logger,
	)
	session := service.NewSessionService(api.NewAuthRepo(client), tokens, cache, logger)
	launcher := player.NewLauncher(cfg.Player.Command, cfg.Player.Args, logger)

	if register {
		return runRegisterFlow(session)
	}

	if !session.IsAuthenticated() {
		if err := runLoginFlow(session, logger); err != nil {
			return err
		}
	}

	model := tui.NewModel(catalog, session, launcher)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(cfg *config.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to aniterm!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	var serverURL string
	for {
		fmt.Print("Enter your server URL (e.g., http://192.168.1.100:5000): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL = strings.TrimRight(strings.TrimSpace(input), "/")

		if serverURL == "" {
			fmt.Println("Server URL cannot be empty. Please try again.")
			continue
		}
		break
	}

	cfg.Server.URL = serverURL

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	logger.Info("configuration saved", "server", serverURL)

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run aniterm again to start the application.")

	return nil
}

// runLoginFlow prompts for credentials and authenticates against the server.
// The token is persisted to the config file on success.
func runLoginFlow(session *service.SessionService, logger *slog.Logger) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println()
	for attempt := 0; attempt < 3; attempt++ {
		fmt.Print("Username: ")
		username, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		fmt.Print("Password: ")
		password, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = session.Login(ctx, domain.Credentials{
			Username: strings.TrimSpace(username),
			Password: strings.TrimSpace(password),
		})
		cancel()
		if err != nil {
			logger.Warn("login failed", "error", err)
			fmt.Printf("✗ Login failed: %v\n\n", err)
			continue
		}

		fmt.Println("✓ Logged in.")
		fmt.Println()
		return nil
	}

	return fmt.Errorf("authentication failed")
}

// runRegisterFlow creates an account. It does not log the user in; run
// aniterm again to sign in with the new credentials.
func runRegisterFlow(session *service.SessionService) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println()
	fmt.Print("Username: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	fmt.Print("Password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err = session.Register(ctx, domain.Registration{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: strings.TrimSpace(password),
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Account created. Run aniterm to log in.")
	return nil
}

// runUpload pushes one local media file to the configured object store and
// prints the public URL, for pasting into the admin forms.
func runUpload(cfg *config.Config, path string, logger *slog.Logger) error {
	if cfg.Storage.URL == "" {
		return fmt.Errorf("storage.url is not configured")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	uploader := storage.NewUploader(cfg.Storage.URL, cfg.Storage.APIKey, cfg.Storage.Bucket, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := uploader.EnsureBucket(ctx); err != nil {
		return err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	url, err := uploader.Upload(ctx, filepath.Base(path), contentType, f)
	if err != nil {
		return err
	}

	fmt.Println(url)
	return nil
}
