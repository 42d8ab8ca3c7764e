package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Miracle004/Lumo/config"
	"github.com/Miracle004/Lumo/internal/api/collaboration"
	"github.com/Miracle004/Lumo/internal/api/comment"
	"github.com/Miracle004/Lumo/internal/api/community"
	"github.com/Miracle004/Lumo/internal/api/notification"
	"github.com/Miracle004/Lumo/internal/api/post"
	"github.com/Miracle004/Lumo/internal/api/system"
	"github.com/Miracle004/Lumo/internal/api/user"
	"github.com/Miracle004/Lumo/internal/errors"
	"github.com/Miracle004/Lumo/internal/middleware"
	"github.com/Miracle004/Lumo/internal/realtime"
	"github.com/Miracle004/Lumo/internal/repository/mysql"
	"github.com/Miracle004/Lumo/internal/service"
	"github.com/Miracle004/Lumo/internal/storage"
	"github.com/Miracle004/Lumo/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func main() {
	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 设置数据库连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	// 连接数据库
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	// 测试数据库连接
	if err = db.Ping(); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("permission", util.ValidatePermission)
	}

	// 初始化存储后端
	store, err := storage.New(&config.AppConfig)
	if err != nil {
		util.Logger.Fatal("初始化存储后端失败", zap.Error(err))
	}

	// 启动 WebSocket 中心
	hub := realtime.NewHub()

	// 初始化存储库
	userRepo := mysql.NewUserRepository(db)
	postRepo := mysql.NewPostRepository(db)
	collaboratorRepo := mysql.NewCollaboratorRepository(db)
	commentRepo := mysql.NewCommentRepository(db)
	notificationRepo := mysql.NewNotificationRepository(db)
	engagementRepo := mysql.NewEngagementRepository(db)

	// 初始化服务
	emailService := service.NewEmailService()
	userService := service.NewUserService(userRepo, emailService)
	accessService := service.NewAccessService(collaboratorRepo)
	notificationService := service.NewNotificationService(notificationRepo, collaboratorRepo)
	postService := service.NewPostService(postRepo, accessService, hub)
	collaborationService := service.NewCollaborationService(
		postRepo,
		collaboratorRepo,
		userRepo,
		notificationService,
		emailService,
		accessService,
		hub,
	)
	commentService := service.NewCommentService(
		commentRepo,
		postRepo,
		notificationService,
		accessService,
		hub,
	)
	engagementService := service.NewEngagementService(engagementRepo, postRepo)

	// 初始化错误监控
	errorAnalytics := errors.NewErrorAnalytics()

	// 初始化处理器
	authHandler := user.NewAuthHandler(userService)
	profileHandler := user.NewProfileHandler(userService, engagementService, store)
	systemHandler := system.NewSystemHandler(userService, errorAnalytics)
	postHandler := post.NewPostHandler(postService, engagementService)
	uploadHandler := post.NewUploadHandler(store)
	collaborationHandler := collaboration.NewCollaborationHandler(collaborationService)
	commentHandler := comment.NewCommentHandler(commentService)
	notificationHandler := notification.NewNotificationHandler(notificationService)
	communityHandler := community.NewCommunityHandler(engagementService)

	// 设置 Gin 路由
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorAnalytics))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	r.Use(cors.New(corsConfig))

	// 本地存储时需要静态文件服务
	if config.AppConfig.StorageBackend == "local" || config.AppConfig.StorageBackend == "" {
		r.Use(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
				c.Header("Access-Control-Allow-Origin", config.AppConfig.FrontendURL)
			}
			c.Next()
		})
		r.Static("/uploads", config.AppConfig.LocalStoragePath)
	}

	// WebSocket 入口，握手时通过 query 参数携带令牌
	r.GET("/ws", realtime.ServeWS(hub))

	// 健康检查
	r.GET("/health", systemHandler.Health)

	auth := middleware.AuthMiddleware(userService)
	optionalAuth := middleware.OptionalAuthMiddleware(userService)

	// 定义 API 路由
	api := r.Group("/api")
	{
		// 认证相关路由
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", auth, authHandler.Logout)
		api.POST("/auth/refresh-token", auth, authHandler.RefreshToken)

		// 用户资料
		api.GET("/profile", auth, profileHandler.GetProfile)
		api.PUT("/profile", auth, profileHandler.UpdateProfile)
		api.DELETE("/profile", auth, profileHandler.DeleteAccount)
		api.POST("/profile/avatar", auth, profileHandler.UploadAvatar)
		api.GET("/users/:id", optionalAuth, profileHandler.GetPublicProfile)

		// 帖子相关路由
		api.POST("/posts", auth, postHandler.CreatePost)
		api.GET("/posts/published", optionalAuth, postHandler.ListPublished)
		api.GET("/posts/drafts", auth, postHandler.Dashboard)
		api.GET("/posts/stats", auth, postHandler.Stats)
		api.GET("/posts/my-published", auth, postHandler.MyPublished)
		api.GET("/posts/bookmarks", auth, communityHandler.ListBookmarks)
		api.GET("/posts/search", postHandler.Search)
		api.GET("/posts/:id", optionalAuth, postHandler.GetPost)
		api.PUT("/posts/:id", auth, postHandler.UpdatePost)
		api.POST("/posts/:id/publish", auth, postHandler.PublishPost)
		api.DELETE("/posts/:id", auth, postHandler.DeletePost)

		// 封面图上传
		api.POST("/upload/cover", auth, uploadHandler.UploadCoverImage)

		// 共享协作
		api.POST("/posts/:id/share", auth, collaborationHandler.Share)
		api.GET("/posts/:id/collaborators", auth, collaborationHandler.ListCollaborators)
		api.DELETE("/posts/:id/collaborators/:userId", auth, collaborationHandler.Revoke)
		api.GET("/invites/unread-count", auth, collaborationHandler.UnreadInviteCount)
		api.POST("/invites/mark-viewed", auth, collaborationHandler.MarkInvitesViewed)

		// 评论
		api.POST("/posts/:id/comments", auth, commentHandler.AddComment)
		api.GET("/posts/:id/comments", optionalAuth, commentHandler.ListComments)
		api.DELETE("/comments/:id", auth, commentHandler.DeleteComment)

		// 通知
		api.GET("/notifications", auth, notificationHandler.List)
		api.GET("/notifications/unread-count", auth, notificationHandler.UnreadCount)
		api.POST("/notifications/mark-read", auth, notificationHandler.MarkRead)

		// 点赞与收藏
		api.POST("/posts/:id/like", auth, communityHandler.LikePost)
		api.DELETE("/posts/:id/like", auth, communityHandler.UnlikePost)
		api.POST("/posts/:id/bookmark", auth, communityHandler.BookmarkPost)
		api.DELETE("/posts/:id/bookmark", auth, communityHandler.UnbookmarkPost)

		// 关注
		api.POST("/users/:id/follow", auth, communityHandler.FollowUser)
		api.DELETE("/users/:id/follow", auth, communityHandler.UnfollowUser)
		api.GET("/users/:id/followers", communityHandler.GetFollowers)
		api.GET("/users/:id/following", communityHandler.GetFollowing)
	}

	// 启动服务器
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		util.Logger.Info("服务器监听中", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("服务器启动失败", zap.Error(err))
		}
	}()

	// 优雅关机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("收到退出信号，正在关闭服务器")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Error("服务器关闭失败", zap.Error(err))
	}

	util.Logger.Info("服务器已退出")
}
