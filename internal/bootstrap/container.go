package bootstrap

import (
	"context"
	"log"
	"time"

	"bookbodh-be/internal/config"
	"bookbodh-be/internal/controller"
	"bookbodh-be/internal/handler"
	"bookbodh-be/internal/pkg/logger"
	"bookbodh-be/internal/repository/memory"
	"bookbodh-be/internal/repository/unitofwork"
	"bookbodh-be/internal/service"
	"bookbodh-be/internal/websocket"
	"bookbodh-be/pkg/events"
	"bookbodh-be/pkg/llm/factory"
	"bookbodh-be/pkg/lock"
	pktNats "bookbodh-be/pkg/nats"
	"bookbodh-be/pkg/pipeline/extract"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	BookController        controller.IBookController
	ChatController        controller.IChatController
	DiagnosticsController controller.IDiagnosticsController
	HealthController      controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	StatusHandler *handler.StatusHandler
	WebSocketHub  *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	var closers []func()

	// 2. Job queue
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)
	closers = append(closers, func() { pubSub.Close() })

	// 3. Optional infrastructure
	var eventPublisher events.Publisher
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		p, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			natsPub = p
			eventPublisher = p
			closers = append(closers, p.Close)
		}
	}

	rdb := connectRedis(cfg.App.RedisURL)
	var locker lock.Locker = lock.NewLocalLocker()
	if rdb != nil {
		locker = lock.NewRedisLocker(rdb)
		closers = append(closers, func() { rdb.Close() })
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Ai.LLMAPIKey,
		cfg.Ai.RequestTimeout,
	)
	if err != nil {
		log.Printf("[WARN] Failed to initialize LLM Provider, answering lexically: %v", err)
		llmProvider = nil
	}
	if llmProvider != nil {
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	} else {
		log.Printf("[INFO] No LLM Provider configured, chat answers are lexical")
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	chunkCache := memory.NewChunkCache(cfg.Pipeline.ChunkCacheTTL)
	extractor := extract.NewHeuristicExtractor()

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Pipeline.ExtractTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		uowFactory,
		extractor,
		locker,
		chunkCache,
		eventPublisher,
		wsHub,
		cfg.Pipeline,
		sysLogger,
	)

	bookService := service.NewBookService(
		uowFactory,
		publisherService,
		eventPublisher,
		chunkCache,
		cfg.App.UploadDir,
		cfg.Pipeline.LockTTL,
		sysLogger,
	)
	chatService := service.NewChatService(uowFactory, llmProvider, chunkCache, cfg.Ai, sysLogger)
	diagnosticsService := service.NewDiagnosticsService(sysLogger, extractor, cfg.Pipeline.ChunkWords)

	var bus service.BusStatus
	if natsPub != nil {
		bus = natsPub
	}
	healthService := service.NewHealthService(db, rdb, bus, cfg.App.UploadDir)

	// 5. Controllers
	return &Container{
		BookController:        controller.NewBookController(bookService),
		ChatController:        controller.NewChatController(chatService),
		DiagnosticsController: controller.NewDiagnosticsController(diagnosticsService),
		HealthController:      controller.NewHealthController(healthService),

		ConsumerService: consumerService,

		StatusHandler: handler.NewStatusHandler(wsHub, cfg.App.JwtSecret, wsLogger),
		WebSocketHub:  wsHub,

		Logger:  sysLogger,
		closers: closers,
	}
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.Logger.Sync()
}

// connectRedis returns nil when Redis is not configured or unreachable.
func connectRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}

	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, using in-process lock: %v", err)
		rdb.Close()
		return nil
	}
	return rdb
}
