package router

import (
	"testing"

	"github.com/yiyuan-9527/YiyuanBlog/internal/testutils"

	"github.com/gin-gonic/gin"
)

// 测试内容：验证核心 API 路由被正确注册。
func TestInitRouter_RegistersCoreRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testutils.SetupConfig(t)
	testutils.SetupDB(t)

	r := gin.New()
	InitRouter(r)

	type wantRoute struct {
		method string
		path   string
	}
	wants := []wantRoute{
		{method: "POST", path: "/api/auth/register"},
		{method: "POST", path: "/api/auth/login"},
		{method: "POST", path: "/api/auth/refresh"},
		{method: "GET", path: "/api/auth/verify-email"},
		{method: "GET", path: "/api/user/profile"},
		{method: "POST", path: "/api/user/follow/:id"},
		{method: "GET", path: "/api/storage/info"},
		{method: "POST", path: "/api/storage/upgrade"},
		{method: "GET", path: "/api/homepage"},
		{method: "GET", path: "/api/posts/:id"},
		{method: "POST", path: "/api/posts"},
		{method: "POST", path: "/api/posts/:id/publish"},
		{method: "POST", path: "/api/posts/:id/images/upload"},
		{method: "POST", path: "/api/posts/:id/videos/upload"},
		{method: "POST", path: "/api/posts/:id/comments"},
		{method: "DELETE", path: "/api/comments/:comment_id"},
		{method: "GET", path: "/api/albums"},
		{method: "POST", path: "/api/albums/:id/images/upload"},
	}

	have := make(map[string]bool)
	for _, route := range r.Routes() {
		have[route.Method+" "+route.Path] = true
	}

	for _, w := range wants {
		if !have[w.method+" "+w.path] {
			t.Fatalf("缺少路由: %s %s", w.method, w.path)
		}
	}
}
