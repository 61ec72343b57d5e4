package location

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/EdilKulzhabay/courier/internal/domain"
	"github.com/EdilKulzhabay/courier/internal/logx"
)

// Diagnostics is a snapshot of the device location state.
type Diagnostics struct {
	ServicesEnabled      bool              `json:"servicesEnabled"`
	ForegroundPermission domain.Permission `json:"foregroundPermission"`
	BackgroundPermission domain.Permission `json:"backgroundPermission"`
	HasLastKnown         bool              `json:"hasLastKnown"`
	LastKnownAge         time.Duration     `json:"lastKnownAgeNs,omitempty"`
	LastKnownAccuracy    float64           `json:"lastKnownAccuracy,omitempty"`
	LastReportedAt       time.Time         `json:"lastReportedAt"`
	Errors               []string          `json:"errors,omitempty"`
}

// String renders the report sent to the diagnostic sink.
func (d Diagnostics) String() string {
	var b strings.Builder
	b.WriteString("location diagnostics:\n")
	fmt.Fprintf(&b, "services enabled: %t\n", d.ServicesEnabled)
	fmt.Fprintf(&b, "foreground permission: %s\n", d.ForegroundPermission)
	fmt.Fprintf(&b, "background permission: %s\n", d.BackgroundPermission)
	if d.HasLastKnown {
		fmt.Fprintf(&b, "last known: %d min old, accuracy %.0fm\n", int(d.LastKnownAge.Minutes()), d.LastKnownAccuracy)
	} else {
		b.WriteString("last known: none\n")
	}
	if d.LastReportedAt.IsZero() {
		b.WriteString("last report: never")
	} else {
		fmt.Fprintf(&b, "last report: %s", d.LastReportedAt.UTC().Format(time.RFC3339))
	}
	for _, e := range d.Errors {
		b.WriteString("\nerror: ")
		b.WriteString(e)
	}
	return b.String()
}

// Diagnose probes the platform and sends the report to the diagnostic sink.
// Probe failures are recorded in the report; only ctx cancellation is an error.
func (e *Engine) Diagnose(ctx context.Context) (Diagnostics, error) {
	d := Diagnostics{LastReportedAt: e.LastReportedAt()}

	var err error
	if d.ServicesEnabled, err = e.platform.ServicesEnabled(ctx); err != nil {
		d.Errors = append(d.Errors, "services: "+err.Error())
	}
	if d.ForegroundPermission, err = e.platform.ForegroundPermission(ctx); err != nil {
		d.ForegroundPermission = domain.PermissionUndetermined
		d.Errors = append(d.Errors, "foreground permission: "+err.Error())
	}
	if d.BackgroundPermission, err = e.platform.BackgroundPermission(ctx); err != nil {
		d.BackgroundPermission = domain.PermissionUndetermined
		d.Errors = append(d.Errors, "background permission: "+err.Error())
	}
	last, err := e.platform.LastKnown(ctx)
	switch {
	case err != nil:
		d.Errors = append(d.Errors, "last known: "+err.Error())
	case last != nil:
		d.HasLastKnown = true
		d.LastKnownAge = last.Age(e.clk.Now())
		d.LastKnownAccuracy = last.Accuracy
	}

	if err := ctx.Err(); err != nil {
		return d, err
	}

	e.logger.Info("location diagnostics",
		logx.Bool("services_enabled", d.ServicesEnabled),
		logx.String("foreground", string(d.ForegroundPermission)),
		logx.String("background", string(d.BackgroundPermission)),
		logx.Bool("has_last_known", d.HasLastKnown),
	)
	e.diag(ctx, "diagnostics", d.String())
	return d, nil
}
