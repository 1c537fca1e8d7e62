package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"greenhaven/internal/domain"
	productrepo "greenhaven/internal/repository/product"
	userrepo "greenhaven/internal/repository/user"
	accountsvc "greenhaven/internal/service/account"
	addresssvc "greenhaven/internal/service/address"
	cartsvc "greenhaven/internal/service/cart"
	catalogsvc "greenhaven/internal/service/catalog"
	checkoutsvc "greenhaven/internal/service/checkout"
	reviewsvc "greenhaven/internal/service/review"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccountService is the slice of the account service the handlers need.
type AccountService interface {
	Signup(ctx context.Context, in accountsvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	Logout(ctx context.Context, token string) error
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in userrepo.UpdateInput) (*domain.User, error)
	VerifyEmail(ctx context.Context, token string) error
	RequestVerification(ctx context.Context, email string) error
	AccessTTLSeconds() int
}

type CatalogService interface {
	List(ctx context.Context, f productrepo.ListFilter) (*catalogsvc.ListResult, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

type AddressService interface {
	Create(ctx context.Context, userID string, in addresssvc.Input) (*domain.Address, error)
	Update(ctx context.Context, userID, id string, in addresssvc.Input) (*domain.Address, error)
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string) ([]domain.Address, error)
}

type CartService interface {
	Add(ctx context.Context, userID string, in cartsvc.AddInput) (*domain.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.CartItem, error)
	Remove(ctx context.Context, userID, itemID string) error
	Get(ctx context.Context, userID string) (*cartsvc.Summary, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, user *domain.User, in checkoutsvc.Input) (*domain.Order, error)
}

type OrderService interface {
	List(ctx context.Context, userID string) ([]domain.Order, error)
	Get(ctx context.Context, userID, orderID string) (*domain.Order, error)
	Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error)
}

type ReviewService interface {
	Create(ctx context.Context, userID, productID string, in reviewsvc.Input) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
}

type WishlistService interface {
	Add(ctx context.Context, userID, productID string) (*domain.WishlistItem, error)
	Remove(ctx context.Context, userID, productID string) error
	List(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	Contains(ctx context.Context, userID, productID string) (bool, error)
}

// Deps bundles the services the router depends on.
type Deps struct {
	AccountSvc  AccountService
	CatalogSvc  CatalogService
	AddressSvc  AddressService
	CartSvc     CartService
	CheckoutSvc CheckoutService
	OrderSvc    OrderService
	ReviewSvc   ReviewService
	WishlistSvc WishlistService
}

func (d Deps) validate() error {
	if d.AccountSvc == nil || d.CatalogSvc == nil || d.AddressSvc == nil ||
		d.CartSvc == nil || d.CheckoutSvc == nil || d.OrderSvc == nil ||
		d.ReviewSvc == nil || d.WishlistSvc == nil {
		return errors.New("httpserver: missing service dependency")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowOrigins = nil
		corsCfg.AllowCredentials = false
	}
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", signupHandler(deps.AccountSvc))
	auth.POST("/login", loginHandler(deps.AccountSvc))
	auth.POST("/logout", authMiddleware(deps.AccountSvc), logoutHandler(deps.AccountSvc))
	auth.POST("/verify-email", verifyEmailHandler(deps.AccountSvc))
	auth.POST("/resend-verification", resendVerificationHandler(deps.AccountSvc))

	api.GET("/products", listProductsHandler(deps.CatalogSvc))
	api.GET("/products/:slug", getProductHandler(deps.CatalogSvc))
	api.GET("/products/:slug/reviews", listReviewsHandler(deps.CatalogSvc, deps.ReviewSvc))
	api.POST("/products/:slug/reviews", authMiddleware(deps.AccountSvc), createReviewHandler(deps.CatalogSvc, deps.ReviewSvc))
	api.GET("/categories", listCategoriesHandler(deps.CatalogSvc))

	me := api.Group("/me", authMiddleware(deps.AccountSvc))
	me.GET("", profileHandler(deps.AccountSvc))
	me.PATCH("", updateProfileHandler(deps.AccountSvc))

	me.GET("/addresses", listAddressesHandler(deps.AddressSvc))
	me.POST("/addresses", createAddressHandler(deps.AddressSvc))
	me.PUT("/addresses/:id", updateAddressHandler(deps.AddressSvc))
	me.DELETE("/addresses/:id", deleteAddressHandler(deps.AddressSvc))

	me.GET("/cart", getCartHandler(deps.CartSvc))
	me.POST("/cart/items", addCartItemHandler(deps.CartSvc))
	me.PATCH("/cart/items/:id", updateCartItemHandler(deps.CartSvc))
	me.DELETE("/cart/items/:id", removeCartItemHandler(deps.CartSvc))

	me.POST("/checkout", checkoutHandler(deps.CheckoutSvc))

	me.GET("/orders", listOrdersHandler(deps.OrderSvc))
	me.GET("/orders/:id", getOrderHandler(deps.OrderSvc))
	me.POST("/orders/:id/cancel", cancelOrderHandler(deps.OrderSvc))

	me.GET("/wishlist", listWishlistHandler(deps.WishlistSvc))
	me.POST("/wishlist", addWishlistHandler(deps.WishlistSvc))
	me.GET("/wishlist/check/:productId", checkWishlistHandler(deps.WishlistSvc))
	me.DELETE("/wishlist/:productId", removeWishlistHandler(deps.WishlistSvc))

	return router, nil
}
