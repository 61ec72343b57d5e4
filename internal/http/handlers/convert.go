package handlers

import (
	"strings"
	"time"

	"github.com/EdilKulzhabay/courier/internal/domain"
)

func (r notificationRequest) toModel() domain.Notification {
	return domain.Notification{
		Title: strings.TrimSpace(r.Title),
		Data:  domain.NotificationData{Order: r.Data.Order},
	}
}

func (r movementRequest) toModel() domain.Position {
	return domain.Position{
		Lat:        *r.Lat,
		Lon:        *r.Lon,
		Accuracy:   r.Accuracy,
		CapturedAt: r.Timestamp,
	}
}

func (r *courierRequest) toModel() *domain.Courier {
	if r == nil {
		return nil
	}
	return &domain.Courier{
		ID:       strings.TrimSpace(r.ID),
		FullName: r.FullName,
		Phone:    r.Phone,
		Online:   r.Online,
		Status:   r.Status,
	}
}

func identityToResponse(id domain.CourierIdentity) identityResponse {
	return identityResponse{CourierID: id.CourierID, Online: id.Online}
}

func statusToResponse(last time.Time, silence time.Duration) locationStatusResponse {
	resp := locationStatusResponse{SilenceSeconds: int64(silence / time.Second)}
	if !last.IsZero() {
		t := last.UTC()
		resp.LastReportedAt = &t
	}
	return resp
}
