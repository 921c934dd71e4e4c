package utils

import (
	"testing"
)

const nestedDoc = `{
	"type": "doc",
	"content": [
		{"type": "heading", "attrs": {"level": 1}, "content": [
			{"type": "text", "text": "旅行日记"}
		]},
		{"type": "paragraph", "content": [
			{"type": "text", "text": "第一天去了海边, "},
			{"type": "text", "text": "天气很好。"}
		]},
		{"type": "blockquote", "content": [
			{"type": "paragraph", "content": [
				{"type": "image", "attrs": {"src": "https://cdn.example.com/a.jpg", "width": 800}},
				{"type": "text", "text": "海边的照片"}
			]}
		]},
		{"type": "paragraph", "content": [
			{"type": "image", "attrs": {"src": "https://cdn.example.com/b.jpg"}}
		]}
	]
}`

// 测试内容：验证从巢状 ProseMirror 文档提取纯文本。
func TestExtractPlainText(t *testing.T) {
	got := ExtractPlainText(nestedDoc)
	want := "旅行日记第一天去了海边, 天气很好。海边的照片"
	if got != want {
		t.Fatalf("期望 %q，实际为 %q", want, got)
	}
}

// 测试内容：验证提取第一张图片的 URL（文档顺序优先）。
func TestExtractFirstImageURL(t *testing.T) {
	got := ExtractFirstImageURL(nestedDoc)
	if got != "https://cdn.example.com/a.jpg" {
		t.Fatalf("期望第一张图片 a.jpg，实际为 %q", got)
	}
}

// 测试内容：验证非法 JSON 与空文档的容错行为。
func TestExtract_InvalidInput(t *testing.T) {
	cases := []string{
		"",
		"not json",
		`{"foo": "bar"}`,
		`{"type": "doc"}`,
	}
	for _, c := range cases {
		if got := ExtractPlainText(c); got != "" {
			t.Fatalf("输入 %q 期望空文本，实际为 %q", c, got)
		}
		if got := ExtractFirstImageURL(c); got != "" {
			t.Fatalf("输入 %q 期望空 URL，实际为 %q", c, got)
		}
	}
}
