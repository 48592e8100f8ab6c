package metrics

import "github.com/prometheus/client_golang/prometheus"

// GatewayMetrics exposes counters/histograms for platform API calls.
type GatewayMetrics struct {
	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	m := &GatewayMetrics{
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "botconsole",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total platform API requests",
		}, []string{"operation", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "botconsole",
			Subsystem: "gateway",
			Name:      "request_latency_seconds",
			Help:      "Latency of platform API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestTotal, m.requestLatency)
	return m
}

func (m *GatewayMetrics) ObserveRequest(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(operation, status).Inc()
	m.requestLatency.WithLabelValues(operation).Observe(seconds)
}

// CampaignMetrics exposes counters for the campaign workflow.
type CampaignMetrics struct {
	executionsTotal  *prometheus.CounterVec
	contactsEnrolled prometheus.Counter
}

func NewCampaignMetrics(reg prometheus.Registerer) *CampaignMetrics {
	m := &CampaignMetrics{
		executionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "botconsole",
			Subsystem: "campaigns",
			Name:      "executions_total",
			Help:      "Total campaign execution attempts",
		}, []string{"status"}),
		contactsEnrolled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "botconsole",
			Subsystem: "campaigns",
			Name:      "contacts_enrolled_total",
			Help:      "Total contacts enrolled into campaigns",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.executionsTotal, m.contactsEnrolled)
	return m
}

func (m *CampaignMetrics) ObserveExecution(status string) {
	if m == nil {
		return
	}
	m.executionsTotal.WithLabelValues(status).Inc()
}

func (m *CampaignMetrics) AddContactsEnrolled(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.contactsEnrolled.Add(float64(n))
}
