package dto

// PublishRequest is a direct publish call outside the write pipeline.
// The channel record decides the platform and carries its credentials.
type PublishRequest struct {
	Title   string     `json:"title" binding:"required"`
	Content string     `json:"content" binding:"required"`
	Channel ChannelDTO `json:"channel" binding:"required"`
	JobID   string     `json:"jobId,omitempty"`
	UserID  string     `json:"userId,omitempty"`
}

type PublishResponse struct {
	Platform string `json:"platform"`
	Status   string `json:"status"`
	URL      string `json:"url,omitempty"`
	Message  string `json:"message,omitempty"`
}
