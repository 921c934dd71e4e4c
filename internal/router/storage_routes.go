package router

import (
	"github.com/yiyuan-9527/YiyuanBlog/internal/handler"
	"github.com/yiyuan-9527/YiyuanBlog/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerStorageRoutes(api *gin.RouterGroup) {
	storageGroup := api.Group("/storage")
	storageGroup.Use(middleware.JWTAuth())
	storageGroup.Use(middleware.UserStatusCheck())

	storageGroup.GET("/info", handler.GetStorageInfo)
	storageGroup.POST("/upgrade", handler.UpgradeStoragePlan)
}
