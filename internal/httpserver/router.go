package httpserver

import (
	"context"
	"errors"
	"log"

	"storefront/internal/domain"
	authsvc "storefront/internal/service/auth"
	catalogsvc "storefront/internal/service/catalog"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// sessionCookie is the HttpOnly cookie carrying the opaque session token.
const sessionCookie = "storefront_session"

type authService interface {
	Signup(ctx context.Context, in authsvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
	Logout(ctx context.Context, token string) error
	LookupBySession(ctx context.Context, token string) (*domain.User, error)
	IssueSession(ctx context.Context, userID int64) (string, error)
	SessionTTLSeconds() int
}

type cartService interface {
	Get(ctx context.Context, userID int64) ([]domain.CartItem, error)
	Sync(ctx context.Context, userID int64, items []domain.CartItem) error
}

type catalogService interface {
	List(ctx context.Context, f catalogsvc.Filter) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, in catalogsvc.CreateInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	Brands(ctx context.Context) ([]string, error)
	PriceBuckets(ctx context.Context, count int) ([]catalogsvc.PriceBucket, error)
}

type profileService interface {
	Get(ctx context.Context, userID int64) (*domain.User, error)
	UpdatePhone(ctx context.Context, userID int64, phone string) (*domain.User, error)
	UpdateEmail(ctx context.Context, userID int64, email string) (*domain.User, error)
	UpdateAddress(ctx context.Context, userID int64, address string) (*domain.User, error)
	UpdateImage(ctx context.Context, userID int64, image []byte, contentType string) (*domain.User, error)
}

type passwordService interface {
	Forgot(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) (string, error)
	Reset(ctx context.Context, email, token, newPassword string) error
	Change(ctx context.Context, userID int64, oldPassword, newPassword string) error
}

type oauthService interface {
	AuthURL() string
	Login(ctx context.Context, code string) (*domain.User, error)
}

// Deps collects the services the router wires up.
type Deps struct {
	AuthSvc     authService
	CartSvc     cartService
	CatalogSvc  catalogService
	ProfileSvc  profileService
	PasswordSvc passwordService
	OAuthSvc    oauthService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigin string) (*gin.Engine, error) {
	if deps.AuthSvc == nil {
		return nil, errors.New("auth service required")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if corsOrigin != "" {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = []string{corsOrigin}
		cfg.AllowCredentials = true
		cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
		router.Use(cors.New(cfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")

	api.POST("/signup", signupHandler(deps.AuthSvc))
	api.POST("/login", loginHandler(deps.AuthSvc))
	api.GET("/items", listItemsHandler(deps.CatalogSvc))
	api.GET("/items/filters", itemFiltersHandler(deps.CatalogSvc))
	api.GET("/items/:id", getItemHandler(deps.CatalogSvc))
	api.POST("/password/forgot", forgotPasswordHandler(deps.PasswordSvc))
	api.POST("/password/verify", verifyOTPHandler(deps.PasswordSvc))
	api.POST("/password/reset", resetPasswordHandler(deps.PasswordSvc))
	api.GET("/auth/google/url", googleAuthURLHandler(deps.OAuthSvc))
	api.POST("/auth/google/callback", googleCallbackHandler(deps.OAuthSvc, deps.AuthSvc))

	authed := api.Group("", sessionMiddleware(deps.AuthSvc))
	authed.POST("/logout", logoutHandler(deps.AuthSvc))
	authed.GET("/me", meHandler())
	authed.GET("/cart", getCartHandler(deps.CartSvc))
	authed.POST("/cart/sync", syncCartHandler(deps.CartSvc))
	authed.GET("/profile", getProfileHandler(deps.ProfileSvc))
	authed.PUT("/profile/phone", updatePhoneHandler(deps.ProfileSvc))
	authed.PUT("/profile/email", updateEmailHandler(deps.ProfileSvc))
	authed.PUT("/profile/address", updateAddressHandler(deps.ProfileSvc))
	authed.POST("/profile/image", updateProfileImageHandler(deps.ProfileSvc))
	authed.POST("/password/change", changePasswordHandler(deps.PasswordSvc))

	admin := authed.Group("", adminMiddleware())
	admin.POST("/items", createItemHandler(deps.CatalogSvc))
	admin.DELETE("/items", deleteItemHandler(deps.CatalogSvc))

	return router, nil
}
