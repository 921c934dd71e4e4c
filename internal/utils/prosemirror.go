package utils

import (
	"encoding/json"
	"strings"
)

// ProseMirror 文档是巢状的节点树, 这里只做两件事:
// 提取纯文本(用于摘要)和找出第一张图片(用于缩图)

type proseMirrorNode struct {
	Type string `json:"type"`
	Text string `json:"text"`
	// attrs 里除了 src 还可能有宽高等数值字段
	Attrs   map[string]interface{} `json:"attrs"`
	Content []proseMirrorNode      `json:"content"`
}

// ExtractPlainText 从 ProseMirror JSON 文档中提取纯文本内容
// 无法解析的内容返回空字符串
func ExtractPlainText(content string) string {
	var doc proseMirrorNode
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return ""
	}
	if doc.Type == "" {
		return ""
	}

	var sb strings.Builder
	collectText(doc.Content, &sb)
	return strings.TrimSpace(sb.String())
}

func collectText(nodes []proseMirrorNode, sb *strings.Builder) {
	for _, node := range nodes {
		if node.Type == "text" && node.Text != "" {
			sb.WriteString(node.Text)
		}
		if len(node.Content) > 0 {
			collectText(node.Content, sb)
		}
	}
}

// ExtractFirstImageURL 从 ProseMirror JSON 文档中找出第一个图片节点的 src
// 找不到时返回空字符串
func ExtractFirstImageURL(content string) string {
	var doc proseMirrorNode
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return ""
	}
	if doc.Type == "" {
		return ""
	}
	return findFirstImage(doc.Content)
}

func findFirstImage(nodes []proseMirrorNode) string {
	for _, node := range nodes {
		if node.Type == "image" {
			if src, ok := node.Attrs["src"].(string); ok && src != "" {
				return src
			}
		}
		if len(node.Content) > 0 {
			if src := findFirstImage(node.Content); src != "" {
				return src
			}
		}
	}
	return ""
}
