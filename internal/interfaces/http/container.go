package http

import (
	"context"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/schoolit/servicedesk/internal/application/feed"
	"github.com/schoolit/servicedesk/internal/infrastructure/config"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/infrastructure/relay"
	"github.com/schoolit/servicedesk/internal/shared/db"
	"github.com/schoolit/servicedesk/internal/shared/goroutine"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

// Container holds infrastructure, repositories, use cases, handlers and
// background services, and owns their shutdown.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	txMgr    *db.TransactionManager
	bus      pubsub.ChangeBus
	redisBus *pubsub.RedisChangeBus
	relay    *relay.WebhookRelay
	hub      *feed.Hub
	catalog  *feed.Catalog

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	bgMu     sync.Mutex
	bgCancel context.CancelFunc
	bgDone   sync.WaitGroup
}

func NewContainer(gdb *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     gdb,
		cfg:    cfg,
		log:    log,
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.ucs = newUseCases(c)
	c.catalog = feed.NewCatalog(
		c.ucs.listCalls,
		c.ucs.getCall,
		c.ucs.listItems,
		c.ucs.activeSession,
		c.ucs.listSessions,
	)
	c.hdlrs = newHandlers(c)

	return c, nil
}

func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	c.repos = newRepositories(c.db, log)
	c.txMgr = db.NewTransactionManager(c.db,
		db.WithRetryPolicy(cfg.Database.TxMaxAttempts, cfg.Database.RetryBackoff()),
		db.WithLogger(log),
	)

	if cfg.Redis.Enabled {
		client, err := initRedis(cfg, log)
		if err != nil {
			return err
		}
		c.redis = client
		c.redisBus = pubsub.NewRedisChangeBus(c.redis, cfg.Redis.Channel, log)
		c.bus = c.redisBus
	} else {
		c.bus = pubsub.NewLocalChangeBus(log)
	}

	c.relay = relay.NewWebhookRelay(relay.Config{
		Enabled: cfg.Relay.Enabled,
		Timeout: cfg.Relay.Timeout(),
	}, relay.NewSchoolWebhooks(c.repos.schoolRepo), log)

	c.hub = feed.NewHub(log)
	return nil
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())

	return redisClient, nil
}

// StartBackground feeds the live query hub from the change bus and, when
// Redis is enabled, relays events from other instances.
func (c *Container) StartBackground(ctx context.Context) {
	c.bgMu.Lock()
	defer c.bgMu.Unlock()
	if c.bgCancel != nil {
		return
	}
	ctx, c.bgCancel = context.WithCancel(ctx)

	c.bgDone.Add(1)
	goroutine.SafeGoTracked(c.log, "feed-hub", func() {
		if err := c.hub.Run(ctx, c.bus); err != nil && ctx.Err() == nil {
			c.log.Errorw("feed hub stopped", "error", err)
		}
	}, c.bgDone.Done)

	if c.redisBus != nil {
		c.bgDone.Add(1)
		goroutine.SafeGoTracked(c.log, "change-bus-relay", func() {
			if err := c.redisBus.Run(ctx); err != nil && ctx.Err() == nil {
				c.log.Errorw("change bus relay stopped", "error", err)
			}
		}, c.bgDone.Done)
	}
}

// Shutdown closes live query streams, stops background work, drains
// webhook deliveries and closes the Redis client.
func (c *Container) Shutdown(ctx context.Context) {
	c.hub.Close()

	c.bgMu.Lock()
	if c.bgCancel != nil {
		c.bgCancel()
	}
	c.bgMu.Unlock()
	c.bgDone.Wait()

	if err := c.relay.Close(ctx); err != nil {
		c.log.Warnw("webhook deliveries still in flight at shutdown", "error", err)
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close Redis client", "error", err)
		}
	}
}

func (c *Container) Engine() *gin.Engine {
	return c.engine
}
