package models

type GenerateRequest struct {
	Prompt string `json:"prompt" form:"prompt"`
}

type RepostRequest struct {
	TweetID int64  `json:"tweet_id"`
	Content string `json:"content"`
	APIKey  string `json:"api_key,omitempty"`
}

type RepostResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type DeleteResponse struct {
	Message   string `json:"message"`
	DeletedID int64  `json:"deleted_id"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	AiService string `json:"ai_service"`
}
