package provider

import (
	"time"

	"github.com/sabzihub/backend/internal/authz"
	"github.com/sabzihub/backend/internal/cache"
	"github.com/sabzihub/backend/internal/config"
	"github.com/sabzihub/backend/internal/logger"
	"github.com/sabzihub/backend/internal/models"
	"github.com/sabzihub/backend/internal/payment/upigate"
	"github.com/sabzihub/backend/internal/queue"
	"github.com/sabzihub/backend/internal/repository"
	"github.com/sabzihub/backend/internal/service"
)

// Container wires repositories and services for the HTTP and worker
// entrypoints.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo        repository.AdminRepository
	UserRepo         repository.UserRepository
	OrderRepo        repository.OrderRepository
	OrderCounterRepo repository.OrderCounterRepository
	ProductRepo      repository.ProductRepository
	CategoryRepo     repository.CategoryRepository
	CartRepo         repository.CartRepository
	CouponRepo       repository.CouponRepository
	AddressRepo      repository.AddressRepository
	WishlistRepo     repository.WishlistRepository
	ReviewRepo       repository.ReviewRepository
	NotificationRepo repository.NotificationRepository
	DashboardRepo    repository.DashboardRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	UserAuthService     *service.UserAuthService
	CatalogService      *service.CatalogService
	CartService         *service.CartService
	WishlistService     *service.WishlistService
	AddressService      *service.AddressService
	CouponService       *service.CouponService
	OrderService        *service.OrderService
	PaymentService      *service.PaymentService
	ReviewService       *service.ReviewService
	NotificationService *service.NotificationService
	DashboardService    *service.DashboardService
}

// NewContainer builds the container. Redis and the queue client are
// optional; services degrade when they are absent.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.OrderCounterRepo = repository.NewOrderCounterRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.WishlistRepo = repository.NewWishlistRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.CatalogService = service.NewCatalogService(c.CategoryRepo, c.ProductRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.WishlistService = service.NewWishlistService(c.WishlistRepo, c.ProductRepo)
	c.AddressService = service.NewAddressService(c.AddressRepo)
	c.CouponService = service.NewCouponService(c.CouponRepo)

	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.OrderCounterRepo,
		c.ProductRepo,
		c.CartRepo,
		c.CouponRepo,
		c.AddressRepo,
		c.QueueClient,
		service.NewOrderPricing(c.Config.Order),
	)

	c.PaymentService = service.NewPaymentService(c.OrderRepo, c.buildGateway(), c.QueueClient)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.OrderRepo)
	c.NotificationService = service.NewNotificationService(c.NotificationRepo, c.OrderRepo)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}

// buildGateway returns nil when gateway credentials are not configured;
// payment operations then fail with a gateway-unavailable error instead
// of blocking startup.
func (c *Container) buildGateway() *upigate.Client {
	gw := c.Config.Gateway
	client, err := upigate.NewClient(upigate.Config{
		BaseURL:       gw.BaseURL,
		KeyID:         gw.KeyID,
		KeySecret:     gw.KeySecret,
		WebhookSecret: gw.WebhookSecret,
		Timeout:       time.Duration(gw.TimeoutMS) * time.Millisecond,
	})
	if err != nil {
		logger.Warnw("provider_init_gateway_failed", "error", err)
		return nil
	}
	return client
}
