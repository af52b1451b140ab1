// Package metrics — счётчики Prometheus для выдачи и погашения кодов входа.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector считает события жизненного цикла кодов входа.
type Collector struct {
	issued         prometheus.Counter
	issueConflicts prometheus.Counter
	issueFailed    *prometheus.CounterVec
	redeemed       prometheus.Counter
	redeemFailed   *prometheus.CounterVec
}

// NewCollector регистрирует метрики в переданном регистре.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		issued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tankograd_login_codes_issued_total",
			Help: "Total number of login codes issued.",
		}),
		issueConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tankograd_login_code_conflicts_total",
			Help: "Total number of generation collisions resolved by retry.",
		}),
		issueFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tankograd_login_code_issue_failures_total",
			Help: "Total number of failed issue attempts by reason.",
		}, []string{"reason"}),
		redeemed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tankograd_login_codes_redeemed_total",
			Help: "Total number of login codes redeemed.",
		}),
		redeemFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tankograd_login_code_redeem_failures_total",
			Help: "Total number of failed redemptions by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		c.issued,
		c.issueConflicts,
		c.issueFailed,
		c.redeemed,
		c.redeemFailed,
	)

	return c
}

func (c *Collector) RecordIssued()        { c.issued.Inc() }
func (c *Collector) RecordIssueConflict() { c.issueConflicts.Inc() }
func (c *Collector) RecordRedeemed()      { c.redeemed.Inc() }

// RecordIssueFailure принимает причину: profile_not_found, generation_exhausted, store.
func (c *Collector) RecordIssueFailure(reason string) {
	c.issueFailed.WithLabelValues(reason).Inc()
}

// RecordRedeemFailure принимает причину: not_found, expired, already_redeemed, store.
func (c *Collector) RecordRedeemFailure(reason string) {
	c.redeemFailed.WithLabelValues(reason).Inc()
}
