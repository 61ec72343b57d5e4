package kafka

import (
	"encoding/json"
	"strings"

	"github.com/EdilKulzhabay/courier/internal/domain"
)

// NotificationDTO is the bus representation of a push notification.
type NotificationDTO struct {
	Title string `json:"title"`
	Data  struct {
		Order json.RawMessage `json:"order,omitempty"`
	} `json:"data"`
}

// ToDomain converts NotificationDTO to domain.Notification
func ToDomain(dto NotificationDTO) domain.Notification {
	return domain.Notification{
		Title: strings.TrimSpace(dto.Title),
		Data:  domain.NotificationData{Order: dto.Data.Order},
	}
}
