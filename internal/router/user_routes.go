package router

import (
	"github.com/yiyuan-9527/YiyuanBlog/internal/handler"
	"github.com/yiyuan-9527/YiyuanBlog/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerUserRoutes(api *gin.RouterGroup) {
	userGroup := api.Group("/user")
	userGroup.Use(middleware.JWTAuth())
	userGroup.Use(middleware.UserStatusCheck())

	userGroup.GET("/profile", handler.GetMyProfile)
	userGroup.PATCH("/profile", handler.UpdateMyProfile)
	userGroup.POST("/follow/:id", handler.FollowUser)
	userGroup.DELETE("/follow/:id", handler.UnfollowUser)
}
