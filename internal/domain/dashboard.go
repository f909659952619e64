package domain

// Panel is a dashboard widget as exposed to the client.
type Panel struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	IconClass string `json:"iconClass"`
	URL       string `json:"url"`
}

// DashboardState is what the dashboard page needs to render.
type DashboardState struct {
	Panels []Panel  `json:"panels"`
	Layout []string `json:"layout"`
}

// SetLayoutRequest is the body of a layout update.
type SetLayoutRequest struct {
	Layout string `json:"layout" validate:"required,max=1024,layout"`
}
