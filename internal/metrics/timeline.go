package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	NameTimelineActivities = "timeline_activities"
	NameTimelinePages      = "timeline_pages"
	LabelKind              = "kind"
)

var TimelineActivities = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameTimelineActivities,
		Help:      "Activities emitted by the merged timeline",
		Namespace: Namespace,
	},
	[]string{LabelKind},
)

var TimelinePages = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      NameTimelinePages,
		Help:      "Pages fetched from the activity sources by the merged timeline",
		Namespace: Namespace,
	},
)
