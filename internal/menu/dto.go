package menu

type MenuItemDTO struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Price       string `json:"price"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

type MenuResponse struct {
	TraceID string        `json:"traceId"`
	Items   []MenuItemDTO `json:"items"`
}

type errorResponse struct {
	TraceID string `json:"traceId"`
	Error   string `json:"error"`
	Message string `json:"message"`
}
