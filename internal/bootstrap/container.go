package bootstrap

import (
	"context"
	"log"

	"digestly-be/internal/config"
	"digestly-be/internal/controller"
	"digestly-be/internal/handler"
	"digestly-be/internal/pkg/logger"
	"digestly-be/internal/repository/cache"
	"digestly-be/internal/repository/unitofwork"
	"digestly-be/internal/search"
	"digestly-be/internal/service"
	"digestly-be/internal/websocket"
	"digestly-be/pkg/events"

	pktNats "digestly-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	// DigestChangedTopic carries post-commit change notices from the services to the consumer.
	DigestChangedTopic = "digest.changed"
	// DomainEventsTopic carries domain events to the activity feed when NATS is unavailable.
	DomainEventsTopic = "digest.events"
)

type Container struct {
	// Controllers
	DigestController   controller.IDigestController
	BlockController    controller.IBlockController
	BookmarkController controller.IBookmarkController
	PublicController   controller.IPublicController

	// Used by the server to guard /teams/:teamId routes
	TeamService service.ITeamService

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	ActivityService service.IActivityService
	EventSubscriber service.EventSubscriber

	// WebSockets
	DigestSocketHandler *handler.DigestSocketHandler
	WebSocketHub        *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	// Redis is optional: it backs the shared cache and the cross-instance socket relay.
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	var digestCache cache.DigestCache
	if cfg.Cache.Backend == "redis" && rdb != nil {
		digestCache = cache.NewRedisCache(rdb, cfg.Cache.TTL)
		log.Printf("[INFO] Using cache backend: REDIS (ttl %s)", cfg.Cache.TTL)
	} else {
		digestCache = cache.NewMemoryCache(cfg.Cache.TTL)
		log.Printf("[INFO] Using cache backend: MEMORY (ttl %s)", cfg.Cache.TTL)
	}

	// NATS carries domain events to the activity feed. Without it they go over an in-process topic.
	var eventPublisher events.Publisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	activityService := service.NewActivityService(uowFactory, sysLogger)
	if natsPub != nil && natsSub != nil {
		eventPublisher = natsPub
		c.EventSubscriber = natsSub
		c.closers = append(c.closers, natsPub.Close, natsSub.Close)
	} else {
		if natsPub != nil {
			natsPub.Close()
		}
		if natsSub != nil {
			natsSub.Close()
		}
		eventBus := gochannel.NewGoChannel(
			gochannel.Config{BlockPublishUntilSubscriberAck: true},
			watermillLogger,
		)
		localSub := pktNats.NewLocalSubscriber(eventBus, DomainEventsTopic)
		eventPublisher = pktNats.NewLocalPublisher(eventBus, DomainEventsTopic)
		c.EventSubscriber = localSub
		c.closers = append(c.closers, func() { _ = eventBus.Close() }, localSub.Close)
		log.Printf("[INFO] NATS unavailable, publishing domain events on %s", DomainEventsTopic)
	}

	var meili *search.Meili
	if cfg.Search.MeiliURL != "" {
		meili = search.NewMeili(cfg.Search.MeiliURL, cfg.Search.MeiliAPIKey, cfg.Search.IndexName, sysLogger)
		c.closers = append(c.closers, meili.Close)
	}
	bookmarkSearch := search.NewService(meili, sysLogger)

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.HubLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)

	// 4. Services
	publisherService := service.NewPublisherService(DigestChangedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		DigestChangedTopic,
		digestCache,
		wsHub, // Hub implements DigestBroadcaster
		sysLogger,
	)

	teamService := service.NewTeamService(uowFactory)
	digestService := service.NewDigestService(uowFactory, publisherService, eventPublisher, sysLogger)
	blockService := service.NewDigestBlockService(uowFactory, publisherService, eventPublisher, sysLogger)
	bookmarkService := service.NewBookmarkService(uowFactory, bookmarkSearch, sysLogger)
	publicService := service.NewPublicService(uowFactory, digestCache, sysLogger)

	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 5. Controllers
	c.DigestController = controller.NewDigestController(digestService, activityService)
	c.BlockController = controller.NewBlockController(blockService)
	c.BookmarkController = controller.NewBookmarkController(bookmarkService)
	c.PublicController = controller.NewPublicController(publicService)
	c.TeamService = teamService
	c.ConsumerService = consumerService
	c.ActivityService = activityService
	c.DigestSocketHandler = handler.NewDigestSocketHandler(wsHub, teamService, cfg.App.JwtSecret, wsLogger)
	c.WebSocketHub = wsHub

	return c
}

// Close releases broker and cache connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
