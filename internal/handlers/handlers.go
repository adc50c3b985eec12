package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"inkwell/api/internal/config"
	"inkwell/api/internal/middleware"
	"inkwell/api/internal/models"
	"inkwell/api/internal/oauth"
	"inkwell/api/internal/repository"
	"inkwell/api/internal/security"
	"inkwell/api/internal/service"
	"inkwell/api/internal/storage"
)

type HandlerSet struct {
	log       zerolog.Logger
	cfg       *config.AppConfig
	issuer    *security.TokenIssuer
	auth      *service.AuthService
	users     *service.UserService
	media     *service.MediaService
	blogs     *repository.BlogRepository
	posts     *repository.PostRepository
	providers oauth.Registry
	db        *pgxpool.Pool
	cache     *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, providers oauth.Registry, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	postRepo := repository.NewPostRepository(db)

	issuer := security.NewTokenIssuer(
		cfg.Security.JWTAccessSecret,
		cfg.Security.JWTRefreshSecret,
		cfg.Security.JWTAccessTTL,
		cfg.Security.JWTRefreshTTL,
	)
	refreshStore := service.NewRefreshTokenStore(userRepo, log)

	return HandlerSet{
		log:       log,
		cfg:       cfg,
		issuer:    issuer,
		auth:      service.NewAuthService(userRepo, refreshStore, issuer, log),
		users:     service.NewUserService(userRepo, log),
		media:     service.NewMediaService(store, log),
		blogs:     blogRepo,
		posts:     postRepo,
		providers: providers,
		db:        db,
		cache:     cache,
	}
}

// Register declares the route table. Allowed-role sets are attached
// explicitly per route; a group without RequireRoles only demands a
// valid access token.
func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	throttled := middleware.Throttle(h.cfg.Throttle, h.cache, h.log)

	auth := v1.Group("/auth")
	auth.POST("/login", throttled, h.Login)
	auth.POST("/refresh", throttled, middleware.RefreshAuth(h.issuer), h.Refresh)
	auth.GET("/logout", middleware.Auth(h.issuer), h.Logout)

	social := auth.Group("/social")
	social.GET("/:provider/login", h.SocialLogin)
	social.GET("/:provider/callback", h.SocialCallback)

	users := v1.Group("/users")
	users.POST("/signup", throttled, h.Signup)

	me := users.Group("/me", middleware.Auth(h.issuer))
	me.GET("", h.Me)
	me.PATCH("", h.UpdateProfile)
	me.POST("/password", h.ChangePassword)
	me.POST("/photo", h.UploadProfilePhoto)

	manage := users.Group("", middleware.Auth(h.issuer), middleware.RequireRoles(models.UserRoleSuperAdmin))
	manage.GET("", h.ListUsers)
	manage.GET("/search", h.SearchUsers)
	manage.POST("/invite", h.InviteUser)
	manage.PATCH("/:id/role", h.AssignRole)
	manage.DELETE("/:id", h.DeleteUser)

	blogs := v1.Group("/blogs", middleware.Auth(h.issuer))
	blogs.GET("", h.ListBlogs)
	blogs.GET("/:id", h.GetBlog)
	blogs.GET("/:id/posts", h.ListPosts)
	blogs.POST("", middleware.RequireRoles(models.UserRoleAdmin), h.CreateBlog)
	blogs.DELETE("/:id", middleware.RequireRoles(models.UserRoleAdmin), h.DeleteBlog)
	blogs.PATCH("/:id", middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleEditor), h.UpdateBlog)
	blogs.PUT("/:id/assignees", middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleEditor), h.UpdateAssignees)
	blogs.POST("/:id/posts", middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleEditor), h.CreatePost)

	posts := v1.Group("/posts", middleware.Auth(h.issuer))
	posts.GET("/:id", h.GetPost)
	posts.PATCH("/:id", middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleEditor), h.UpdatePost)
	posts.DELETE("/:id", middleware.RequireRoles(models.UserRoleAdmin), h.DeletePost)
	posts.POST("/:id/comments", middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleEditor), h.AddComment)
	posts.POST("/:id/images", middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleEditor), h.UploadPostImage)
}
