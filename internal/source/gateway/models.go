package gateway

// apiResponse represents the history gateway response structure.
type apiResponse struct {
	Messages []apiMessage `json:"messages"`
	HasMore  bool         `json:"has_more"`
}

type apiMessage struct {
	ID   int64  `json:"id"`
	Date string `json:"date"`
	Text string `json:"text"`
}
