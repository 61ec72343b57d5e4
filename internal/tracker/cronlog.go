package tracker

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/EdilKulzhabay/courier/internal/logx"
)

// cronLogger adapts logx to cron's logger.
type cronLogger struct{ l logx.Logger }

func (c cronLogger) Info(msg string, kv ...interface{}) {
	c.l.Debug("cron: "+msg, pairs(kv)...)
}

func (c cronLogger) Error(err error, msg string, kv ...interface{}) {
	c.l.Error("cron: "+msg, append(pairs(kv), logx.Err(err))...)
}

func pairs(kv []interface{}) []logx.Field {
	out := make([]logx.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, logx.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return out
}

var _ cron.Logger = cronLogger{}
