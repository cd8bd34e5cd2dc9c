// Package metrics exposes Prometheus collectors for posts, submissions and reviews.
package metrics

import (
	"github.com/diegoclair/qotd-bot/internal/domain/entity"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "qotd"

// Metrics groups the bot collectors. A nil *Metrics records nothing.
type Metrics struct {
	posts       *prometheus.CounterVec
	submissions *prometheus.CounterVec
	reviews     *prometheus.CounterVec
	pending     prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		posts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_total",
			Help:      "Questions of the day posted, by trigger and result.",
		}, []string{"trigger", "result"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Suggestions received, by result.",
		}, []string{"result"}),
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_total",
			Help:      "Review decisions, by decision and result.",
		}, []string{"decision", "result"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_questions",
			Help:      "Approved questions waiting to be posted.",
		}),
	}

	reg.MustRegister(m.posts, m.submissions, m.reviews, m.pending)
	return m
}

func (m *Metrics) ObservePost(trigger entity.Trigger, err error) {
	if m == nil {
		return
	}
	m.posts.WithLabelValues(string(trigger), result(err)).Inc()
}

func (m *Metrics) ObserveSubmission(err error) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) ObserveReview(decision entity.StoreName, err error) {
	if m == nil {
		return
	}
	m.reviews.WithLabelValues(decisionLabel(decision), result(err)).Inc()
}

func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.pending.Set(float64(n))
}

func decisionLabel(target entity.StoreName) string {
	if target == entity.StoreRejected {
		return "rejected"
	}
	return "approved"
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
