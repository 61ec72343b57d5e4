package handlers

import (
	"encoding/json"
	"time"
)

type dragRequest struct {
	DY *float64 `json:"dy" validate:"required"`
}

type panelResponse struct {
	Collapsed bool `json:"collapsed"`
}

type notificationRequest struct {
	Title string `json:"title" validate:"required"`
	Data  struct {
		Order json.RawMessage `json:"order,omitempty"`
	} `json:"data"`
}

type probeRequest struct {
	Source string `json:"source" validate:"omitempty,max=64"`
}

type movementRequest struct {
	Lat       *float64  `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon       *float64  `json:"lon" validate:"required,gte=-180,lte=180"`
	Accuracy  float64   `json:"accuracy" validate:"gte=0"`
	Timestamp time.Time `json:"timestamp"`
}

type locationStatusResponse struct {
	LastReportedAt *time.Time `json:"lastReportedAt"`
	SilenceSeconds int64      `json:"silenceSeconds"`
}

// loginRequest is what the device shell hands over after sign-in. Courier is
// the backend record as the shell received it; when absent the agent fetches it.
type loginRequest struct {
	Token   string          `json:"token" validate:"required"`
	Courier *courierRequest `json:"courier"`
}

type courierRequest struct {
	ID       string `json:"_id" validate:"required"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Online   bool   `json:"onTheLine"`
	Status   string `json:"status"`
}

type onlineRequest struct {
	Online *bool `json:"online" validate:"required"`
}

type identityResponse struct {
	CourierID string `json:"courierId"`
	Online    bool   `json:"online"`
}

type statusResponse struct {
	Status string `json:"status"`
}
