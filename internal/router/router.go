package router

import (
	"github.com/parcelkeep/internal/cache"
	"github.com/parcelkeep/internal/config"
	"github.com/parcelkeep/internal/constants"
	"github.com/parcelkeep/internal/http/handlers/api"
	"github.com/parcelkeep/internal/http/response"
	"github.com/parcelkeep/internal/logger"
	"github.com/parcelkeep/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	h := api.New(c)
	bulkRule := RateLimitRule{
		Prefix:        cache.Key("rate:bulk"),
		WindowSeconds: cfg.RateLimit.Bulk.WindowSeconds,
		MaxRequests:   cfg.RateLimit.Bulk.MaxRequests,
		BlockSeconds:  cfg.RateLimit.Bulk.BlockSeconds,
	}
	bulkLimit := RateLimitMiddleware(cache.Client(), bulkRule, KeyByIP)
	attachmentLimit := BodyLimitMiddleware(2 * constants.AttachmentMaxSize)
	importLimit := BodyLimitMiddleware(cfg.Import.MaxSize)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		packages := apiV1.Group("/packages")
		{
			packages.GET("", h.ListPackages)
			packages.POST("", h.CreatePackage)

			// 批量接口需注册在参数路由之前
			packages.POST("/add-many", bulkLimit, h.AddManyPackages)
			packages.POST("/delete-many", bulkLimit, h.DeleteManyPackages)
			packages.POST("/update-many", bulkLimit, h.UpdateManyPackages)
			packages.POST("/import", bulkLimit, importLimit, h.ImportPackages)

			packages.GET("/:tracking_number", h.GetPackage)
			packages.PUT("/:tracking_number", h.ReplacePackage)
			packages.PATCH("/:tracking_number", h.PatchPackageStatus)
			packages.DELETE("/:tracking_number", h.DeletePackage)
			packages.GET("/:tracking_number/events", h.GetPackageEvents)

			packages.POST("/:tracking_number/ID_Proof", attachmentLimit, h.UploadPackageIDProof)
			packages.GET("/:tracking_number/ID_Proof", h.GetPackageIDProof)
			packages.GET("/:tracking_number/ID_Proof/validate", h.ValidatePackageIDProof)
			packages.DELETE("/:tracking_number/delete_ID_Proof", h.DeletePackageIDProof)
		}

		recipients := apiV1.Group("/recipients")
		{
			recipients.GET("", h.ListRecipients)
			recipients.POST("", h.CreateRecipient)

			recipients.POST("/add-many", bulkLimit, h.AddManyRecipients)
			recipients.POST("/delete-many", bulkLimit, h.DeleteManyRecipients)
			recipients.POST("/update-many", bulkLimit, h.UpdateManyRecipients)
			recipients.POST("/import", bulkLimit, importLimit, h.ImportRecipients)

			recipients.GET("/:recipient_contact", h.GetRecipient)
			recipients.PUT("/:recipient_contact", h.ReplaceRecipient)
			recipients.PATCH("/:recipient_contact", h.PatchRecipient)
			recipients.DELETE("/:recipient_contact", h.DeleteRecipient)

			recipients.POST("/:recipient_contact/ID_Proof", attachmentLimit, h.UploadRecipientIDProof)
			recipients.GET("/:recipient_contact/ID_Proof", h.GetRecipientIDProof)
			recipients.GET("/:recipient_contact/ID_Proof/validate", h.ValidateRecipientIDProof)
			recipients.DELETE("/:recipient_contact/delete_ID_Proof", h.DeleteRecipientIDProof)

			recipients.POST("/:recipient_contact/image", attachmentLimit, h.UploadRecipientImage)
			recipients.GET("/:recipient_contact/image", h.GetRecipientImage)
			recipients.GET("/:recipient_contact/image/validate", h.ValidateRecipientImage)
			recipients.DELETE("/:recipient_contact/delete_image", h.DeleteRecipientImage)
		}
	}

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// 健康检查
	r.GET("/healthz", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{"status": "ok"})
	})

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "route not found")
	})

	return r
}
