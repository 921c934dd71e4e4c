package main

import "testing"

// 测试内容：验证静态资源目录白名单只放行安全子目录。
func TestStaticDirAllowed(t *testing.T) {
	cases := []struct {
		rel  string
		want bool
	}{
		{"uploads", true},
		{"uploads/imgs", true},
		{"public/files", true},
		{"Static/assets", true}, // 大小写不敏感
		{"tmp", true},
		{"internal", false},
		{"internal/config", false},
		{"cmd", false},
		{".", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := staticDirAllowed(tc.rel); got != tc.want {
			t.Fatalf("staticDirAllowed(%q) = %v，期望 %v", tc.rel, got, tc.want)
		}
	}
}
