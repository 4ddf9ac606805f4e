package metric

import "github.com/prometheus/client_golang/prometheus"

// ChatState is a point-in-time view of the chat server.
type ChatState struct {
	Members int
	Paused  bool
}

// Collector reports live chat state at scrape time.
type Collector struct {
	state func() ChatState

	members *prometheus.Desc
	paused  *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector that calls state on every scrape.
func NewCollector(state func() ChatState) *Collector {
	return &Collector{
		state: state,
		members: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "chat", "members"),
			"Number of authenticated connections in the broadcast set.",
			nil, nil,
		),
		paused: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "chat", "paused"),
			"1 while relaying is paused.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.members
	ch <- c.paused
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.state()
	paused := 0.0
	if st.Paused {
		paused = 1
	}
	ch <- prometheus.MustNewConstMetric(c.members, prometheus.GaugeValue, float64(st.Members))
	ch <- prometheus.MustNewConstMetric(c.paused, prometheus.GaugeValue, paused)
}
