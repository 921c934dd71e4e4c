package router

import (
	"github.com/yiyuan-9527/YiyuanBlog/internal/handler"
	"github.com/yiyuan-9527/YiyuanBlog/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerPostRoutes(api *gin.RouterGroup, uploadLimiter gin.HandlerFunc) {
	// 访客可见的读路由, 带 token 时按登录身份判可见性
	api.GET("/homepage", middleware.OptionalAuth(), handler.GetHomepagePosts)
	api.GET("/highlights", middleware.OptionalAuth(), handler.GetHighlightPosts)

	publicGroup := api.Group("/posts")
	publicGroup.Use(middleware.OptionalAuth())

	publicGroup.GET("/:id", handler.GetPostDetail)
	publicGroup.GET("/:id/comments", handler.GetComments)

	// 需要登录的写路由
	authedGroup := api.Group("/posts")
	authedGroup.Use(middleware.JWTAuth())
	authedGroup.Use(middleware.UserStatusCheck())

	authedGroup.POST("", handler.CreatePost)
	authedGroup.PATCH("/:id", handler.UpdatePost)
	authedGroup.POST("/:id/publish", handler.PublishPost)
	authedGroup.DELETE("/:id", handler.DeletePost)
	authedGroup.POST("/:id/like", handler.TogglePostLike)
	authedGroup.POST("/:id/bookmark", handler.ToggleBookmark)
	authedGroup.POST("/:id/comments", handler.CreateComment)

	authedGroup.POST("/:id/images/upload",
		middleware.ImageUploadLimit(), uploadLimiter, handler.UploadPostImage)
	authedGroup.POST("/:id/videos/upload",
		middleware.VideoUploadLimit(), uploadLimiter, handler.UploadPostVideo)

	// 附件和留言按自身 ID 操作, 挂在独立前缀下
	imageGroup := api.Group("/post-images")
	imageGroup.Use(middleware.JWTAuth())
	imageGroup.Use(middleware.UserStatusCheck())
	imageGroup.DELETE("/:image_id", handler.DeletePostImage)

	commentGroup := api.Group("/comments")
	commentGroup.Use(middleware.JWTAuth())
	commentGroup.Use(middleware.UserStatusCheck())
	commentGroup.PATCH("/:comment_id", handler.UpdateComment)
	commentGroup.DELETE("/:comment_id", handler.DeleteComment)
	commentGroup.POST("/:comment_id/like", handler.ToggleCommentLike)
}
