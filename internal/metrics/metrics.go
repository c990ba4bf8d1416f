package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Side-effect outcomes per notification channel (email, calendar, realtime).
var Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "taskflow_notifications_total",
	Help: "Task notification side effects by channel and result.",
}, []string{"channel", "result"})

var ReminderDigests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "taskflow_reminder_digests_total",
	Help: "Daily reminder digest emails by result.",
}, []string{"result"})

func NotificationOK(channel string)     { Notifications.WithLabelValues(channel, "ok").Inc() }
func NotificationFailed(channel string) { Notifications.WithLabelValues(channel, "error").Inc() }
