package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/somaarjun/portfolio/backend/internal/assistant"
	"github.com/somaarjun/portfolio/backend/internal/channel/discord"
	"github.com/somaarjun/portfolio/backend/internal/config"
	"github.com/somaarjun/portfolio/backend/internal/handler"
	portfolioModel "github.com/somaarjun/portfolio/backend/internal/model/portfolio"
	"github.com/somaarjun/portfolio/backend/internal/service/ai"
	"github.com/somaarjun/portfolio/backend/internal/service/chat"
	"github.com/somaarjun/portfolio/backend/internal/service/contact"
	"github.com/somaarjun/portfolio/backend/internal/service/portfolio"
	"github.com/somaarjun/portfolio/backend/internal/watch"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	profiles := assistant.NewHolder(loadProfile(cfg.Content.AssistantPath))

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = connectRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Printf("warning: redis unavailable, using in-memory counter and log-only contact sink: %v", err)
			rdb = nil
		} else {
			defer rdb.Close()
			log.Println("Redis connected")
		}
	}

	portfolioService := portfolio.NewService(portfolioModel.NewMemoryStore(loadDocument(cfg.Content.PortfolioPath)), visitCounter(rdb, cfg.Redis))
	contactService := contact.NewService(contactSink(rdb, cfg.Redis))

	relay, err := ai.NewService(ctx, cfg.LLM, profiles, portfolioService)
	if err != nil {
		log.Printf("warning: failed to initialize chat relay: %v", err)
		relay, _ = ai.NewService(ctx, config.LLMConfig{}, profiles, portfolioService)
	}
	if relay.Configured() {
		log.Printf("Chat relay ready (model %s)", cfg.LLM.Model)
	} else {
		log.Println("GROQ_API_KEY 未配置，聊天接口将返回 500")
	}

	if cfg.Content.WatchFiles {
		startWatcher(ctx, cfg.Content, profiles, portfolioService)
	}

	if cfg.Discord.Enabled() {
		bot, err := discord.New(cfg.Discord, relay, chat.NewService())
		if err != nil {
			log.Printf("warning: discord disabled: %v", err)
		} else if err := bot.Start(); err != nil {
			log.Printf("warning: discord disabled: %v", err)
		} else {
			defer bot.Stop()
		}
	}

	router := handler.NewRouter(cfg.Server.APIPrefix, handler.Services{
		Relay:     relay,
		Contacts:  contactService,
		Portfolio: portfolioService,
		Profiles:  profiles,
	})

	startServer(ctx, cfg.Server, router)
}

func loadProfile(path string) *assistant.Profile {
	if path == "" {
		return assistant.Default()
	}
	p, err := assistant.Load(path)
	if err != nil {
		log.Printf("warning: %v; using the embedded assistant profile", err)
		return assistant.Default()
	}
	return p
}

func loadDocument(path string) portfolioModel.Document {
	if path == "" {
		return portfolioModel.Seed()
	}
	doc, err := portfolioModel.LoadFile(path)
	if err != nil {
		log.Printf("warning: %v; serving the built-in portfolio", err)
		return portfolioModel.Seed()
	}
	return doc
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func visitCounter(rdb *redis.Client, cfg config.RedisConfig) portfolio.Counter {
	if rdb == nil {
		return portfolio.NewMemoryCounter()
	}
	return portfolio.NewRedisCounter(rdb, cfg.VisitCounterKey)
}

func contactSink(rdb *redis.Client, cfg config.RedisConfig) contact.Sink {
	if rdb == nil {
		return contact.LogSink{}
	}
	return contact.MultiSink{contact.LogSink{}, contact.NewRedisSink(rdb, cfg.ContactStream)}
}

func startWatcher(ctx context.Context, content config.ContentConfig, profiles *assistant.Holder, docs *portfolio.Service) {
	reloads := make(map[string]func(string) error, 2)
	if content.AssistantPath != "" {
		reloads[content.AssistantPath] = profiles.Reload
	}
	if content.PortfolioPath != "" {
		reloads[content.PortfolioPath] = docs.Reload
	}
	if len(reloads) == 0 {
		return
	}

	w, err := watch.New()
	if err != nil {
		log.Printf("warning: hot reload disabled: %v", err)
		return
	}

	paths := make([]string, 0, len(reloads))
	for p := range reloads {
		paths = append(paths, p)
	}
	events, err := w.Watch(ctx, paths...)
	if err != nil {
		log.Printf("warning: hot reload disabled: %v", err)
		w.Stop()
		return
	}

	go watch.Dispatch(events, reloads)
	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	log.Printf("Watching %d content file(s) for changes", len(paths))
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Portfolio backend listening on %s (routes under %q)", addr, serverCfg.APIPrefix)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
