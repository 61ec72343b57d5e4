package domain

import "encoding/json"

// Notification titles understood by the agent.
const (
	TitleNewOrder    = "newOrder"
	TitleGetLocation = "getLocation"
)

// Notification is a push or foreground message delivered to the agent.
type Notification struct {
	Title string           `json:"title"`
	Data  NotificationData `json:"data"`
}

// NotificationData carries the notification body.
type NotificationData struct {
	Order json.RawMessage `json:"order,omitempty"`
}
