// Command trivia-maze runs the Trivia Maze game server.
//
// Commands:
//  1. "serve" (default) – HTTP server exposing the REST API, WebSocket updates and an /mcp endpoint
//  2. "mcp" – MCP stdio server; proxies an external API or starts an internal one
//  3. "play" – play a game in the terminal
//  4. "validate" – check configurations and question banks
//  5. "import-questions" – load a question bank file into MongoDB
//
// Every flag can also be set from the environment or a .env file. Sessions
// are stored as JSON files unless --redis-addr is given.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/trivia-maze/api"
	"github.com/wricardo/trivia-maze/game/config"
	"github.com/wricardo/trivia-maze/game/questions"
	"github.com/wricardo/trivia-maze/game/service"
	"github.com/wricardo/trivia-maze/game/session"
	"github.com/wricardo/trivia-maze/transport/mcp"
	"github.com/wricardo/trivia-maze/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Trivia Maze Server"
)

const (
	defaultMongoDB         = "trivia_maze"
	defaultMongoCollection = "questions"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the command tree. Flags on the root command are inherited
// by every subcommand, so "serve" shares the root's server flags.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "trivia-maze",
		Usage:   "A maze of rooms whose doors open only for correct trivia answers",
		Version: Version,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing game configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "sessions-dir",
				Value:   "sessions",
				Usage:   "Directory for session files when Redis is not used",
				Sources: cli.EnvVars("SESSIONS_DIR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.StringFlag{
				Name:    "redis-addr",
				Usage:   "Store sessions in Redis at this address",
				Sources: cli.EnvVars("REDIS_ADDR"),
			},
			&cli.StringFlag{
				Name:    "redis-password",
				Usage:   "Redis password",
				Sources: cli.EnvVars("REDIS_PASSWORD"),
			},
			&cli.DurationFlag{
				Name:    "session-ttl",
				Value:   24 * time.Hour,
				Usage:   "Idle time after which sessions are dropped",
				Sources: cli.EnvVars("SESSION_TTL"),
			},
			&cli.StringFlag{
				Name:    "mongo-uri",
				Usage:   "MongoDB URI for configs whose question_bank is \"mongo\"",
				Sources: cli.EnvVars("MONGO_URI"),
			},
			&cli.StringFlag{
				Name:    "mongo-db",
				Value:   defaultMongoDB,
				Usage:   "MongoDB database holding the questions collection",
				Sources: cli.EnvVars("MONGO_DB"),
			},
		}, serveFlags()...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server with REST API, WebSocket, and MCP endpoint",
				Action: runServe,
			},
			{
				Name:  "mcp",
				Usage: "Run an MCP stdio server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "api-url",
						Value:   "http://localhost:8080",
						Usage:   "REST API to proxy; an internal server starts if it is not reachable",
						Sources: cli.EnvVars("API_URL"),
					},
				},
				Action: runMCP,
			},
			{
				Name:      "play",
				Usage:     "Play a game in the terminal",
				ArgsUsage: "[config]",
				Action:    runPlayCommand,
			},
			{
				Name:      "validate",
				Usage:     "Validate configurations and question banks",
				ArgsUsage: "[file ...]",
				Action:    runValidateCommand,
			},
			{
				Name:      "import-questions",
				Usage:     "Upsert a question bank file into MongoDB",
				ArgsUsage: "<bank.yaml>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "collection",
						Value: defaultMongoCollection,
						Usage: "MongoDB collection",
					},
				},
				Action: runImportQuestions,
			},
		},
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Value:   "localhost:8080",
			Usage:   "HTTP listen address",
			Sources: cli.EnvVars("ADDR"),
		},
		&cli.DurationFlag{
			Name:  "cleanup-interval",
			Value: time.Hour,
			Usage: "How often idle sessions are dropped",
		},
		&cli.BoolFlag{
			Name:    "ngrok",
			Usage:   "Enable ngrok tunnel",
			Sources: cli.EnvVars("NGROK_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "ngrok-auth",
			Usage:   "Ngrok auth token",
			Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "ngrok-domain",
			Usage:   "Custom ngrok domain (optional)",
			Sources: cli.EnvVars("NGROK_DOMAIN"),
		},
	}
}

// options are the settings shared by every command that needs the game services
type options struct {
	configDir     string
	sessionsDir   string
	redisAddr     string
	redisPassword string
	sessionTTL    time.Duration
	mongoURI      string
	mongoDB       string
}

func optionsFrom(cmd *cli.Command) options {
	return options{
		configDir:     cmd.String("config-dir"),
		sessionsDir:   cmd.String("sessions-dir"),
		redisAddr:     cmd.String("redis-addr"),
		redisPassword: cmd.String("redis-password"),
		sessionTTL:    cmd.Duration("session-ttl"),
		mongoURI:      cmd.String("mongo-uri"),
		mongoDB:       cmd.String("mongo-db"),
	}
}

// services holds the wired game stack
type services struct {
	configs  *config.Manager
	sessions *session.Manager
	game     service.GameService
	closers  []func()
}

// Close releases database connections
func (s *services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// initializeServices wires the config manager, session persistence, session
// manager and game service.
func initializeServices(ctx context.Context, opts options) (*services, error) {
	configManager, err := config.NewManager(opts.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	svc := &services{configs: configManager}

	if opts.mongoURI != "" {
		client, err := questions.ConnectMongo(ctx, opts.mongoURI)
		if err != nil {
			return nil, err
		}
		svc.closers = append(svc.closers, func() { client.Disconnect(context.Background()) })
		configManager.SetMongoStore(questions.NewMongoStore(client, opts.mongoDB, defaultMongoCollection))
		log.Printf("[QUESTIONS] MongoDB question store enabled (db=%s)", opts.mongoDB)
	}

	var persistence session.SessionPersistence
	if opts.redisAddr != "" {
		client, err := session.ConnectRedis(ctx, opts.redisAddr, opts.redisPassword, 0)
		if err != nil {
			svc.Close()
			return nil, err
		}
		svc.closers = append(svc.closers, func() { client.Close() })
		persistence = session.NewRedisPersistence(client, opts.sessionTTL, configManager)
		log.Printf("[SESSION] Redis persistence at %s", opts.redisAddr)
	} else {
		fp, err := session.NewFilePersistence(opts.sessionsDir, configManager)
		if err != nil {
			svc.Close()
			return nil, fmt.Errorf("failed to create session persistence: %w", err)
		}
		persistence = fp
	}

	svc.sessions = session.NewManagerWithPersistence(configManager, persistence)
	if err := svc.sessions.LoadPersistedSessions(); err != nil {
		log.Printf("Warning: Failed to load persisted sessions: %v", err)
	}

	svc.game = service.NewGameService(svc.sessions, configManager)
	return svc, nil
}

// sessionCleanupRoutine drops idle sessions from memory and prunes sessions
// whose stored copy was deleted, until ctx is done.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, maxAge time.Duration) {
	cleanup := time.NewTicker(interval)
	defer cleanup.Stop()
	prune := time.NewTicker(5 * time.Second)
	defer prune.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cleanup.C:
			if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
				log.Printf("[SESSION] Cleaned up %d expired sessions", removed)
			}
		case <-prune.C:
			for _, id := range manager.PruneOrphans() {
				log.Printf("[SESSION] Pruned session %s from memory (storage copy deleted)", id)
			}
		}
	}
}

// reloadConfigsOnSignal drops the cached configurations and question banks
// each time a signal arrives on reload, until ctx is done
func reloadConfigsOnSignal(ctx context.Context, configs *config.Manager, reload <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-reload:
			if err := configs.RefreshCache(); err != nil {
				log.Printf("[CONFIG] Reload failed: %v", err)
				continue
			}
			log.Printf("[CONFIG] Reloaded configurations, default is %s", configs.DefaultID())
		}
	}
}

// baseURLFor turns a listen address into a URL the MCP proxy can call
func baseURLFor(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// runServe starts the HTTP server with REST API, WebSocket hub, and an /mcp endpoint.
// If ngrok is enabled, it also provisions a public tunnel.
func runServe(ctx context.Context, cmd *cli.Command) error {
	log.Printf("Starting %s v%s", AppName, Version)

	opts := optionsFrom(cmd)
	svc, err := initializeServices(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	apiServer := api.NewServer(svc.game, hub)

	addr := cmd.String("addr")
	mcpClient := mcp.NewClient(baseURLFor(addr))
	apiServer.Router().Handle("/mcp", server.NewStreamableHTTPServer(mcpClient.GetMCPServer()))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      apiServer,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go sessionCleanupRoutine(ctx, svc.sessions, cmd.Duration("cleanup-interval"), opts.sessionTTL)

	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)
	go reloadConfigsOnSignal(ctx, svc.configs, reload)

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), apiServer)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case runErr = <-serveErr:
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	if err := svc.sessions.SaveAllSessions(); err != nil {
		log.Printf("Warning: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return runErr
}

// runNgrok serves handler through an ngrok tunnel until ctx is done
func runNgrok(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// apiAvailable reports whether a REST API answers at baseURL
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// runMCP runs an MCP stdio server. It uses the API at --api-url when one is
// running; otherwise it starts an internal HTTP API on a random loopback port.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	baseURL := cmd.String("api-url")
	log.Printf("Checking for external API server at %s...", baseURL)

	if apiAvailable(baseURL) {
		log.Printf("External API server found at %s, using it for MCP", baseURL)
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		svc, err := initializeServices(ctx, optionsFrom(cmd))
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer svc.Close()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub()
		go hub.Run()
		defer hub.Stop()

		httpServer := &http.Server{Handler: api.NewServer(svc.game, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
		log.Printf("Internal HTTP server on %s for MCP stdio", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Println("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// runImportQuestions validates a bank file and upserts its records into MongoDB
func runImportQuestions(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("usage: %s import-questions <bank.yaml>", cmd.Root().Name)
	}
	uri := cmd.String("mongo-uri")
	if uri == "" {
		return fmt.Errorf("--mongo-uri (or MONGO_URI) is required")
	}

	file, err := questions.LoadBankFile(path)
	if err != nil {
		return err
	}
	if _, err := file.Bank(nil); err != nil {
		return fmt.Errorf("refusing to import invalid bank: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	client, err := questions.ConnectMongo(ctx, uri)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	store := questions.NewMongoStore(client, cmd.String("mongo-db"), cmd.String("collection"))
	written, err := store.Upsert(ctx, file.Questions)
	if err != nil {
		return fmt.Errorf("import failed after %d questions: %w", written, err)
	}
	total, err := store.Count(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d questions from %s (collection now holds %d)\n", written, file.Name, total)
	return nil
}
