// Package dto 定义对外 API 的请求结构。
package dto

import "github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"

// ChatRequest /api/chat 的请求体。
// currentFlow/currentStep 由客户端原样回传上一轮响应块里的 flow/step。
type ChatRequest struct {
	Text          string               `json:"text"`
	ImageBase64   string               `json:"imageBase64"`
	ImageMimeType string               `json:"imageMimeType"`
	History       []entity.Message     `json:"history"`
	Intimacy      entity.IntimacyLevel `json:"intimacy"`
	UserName      string               `json:"userName"`
	CurrentFlow   string               `json:"currentFlow"`
	CurrentStep   int                  `json:"currentStep"`
	ClickedModule string               `json:"clickedModule"`
	ClickedOption string               `json:"clickedOption"`
}
