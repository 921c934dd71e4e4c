package router

import (
	"github.com/yiyuan-9527/YiyuanBlog/internal/handler"
	"github.com/yiyuan-9527/YiyuanBlog/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerAlbumRoutes(api *gin.RouterGroup, uploadLimiter gin.HandlerFunc) {
	albumGroup := api.Group("/albums")
	albumGroup.Use(middleware.JWTAuth())
	albumGroup.Use(middleware.UserStatusCheck())

	albumGroup.GET("", handler.GetMyAlbums)
	albumGroup.POST("", handler.CreateAlbum)
	albumGroup.PATCH("/:id", handler.RenameAlbum)
	albumGroup.DELETE("/:id", handler.DeleteAlbum)
	albumGroup.GET("/:id/images", handler.GetAlbumImages)
	albumGroup.POST("/:id/images/upload",
		middleware.BatchImageUploadLimit(), uploadLimiter, handler.BatchUploadAlbumImages)
	albumGroup.DELETE("/:id/images", handler.BatchDeleteAlbumImages)
}
