package metrics

import (
	"testing"

	"github.com/diegoclair/qotd-bot/internal/domain/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObservePost(entity.TriggerScheduled, nil)
	m.ObservePost(entity.TriggerScheduled, nil)
	m.ObservePost(entity.TriggerManual, assert.AnError)
	m.ObserveSubmission(nil)
	m.ObserveReview(entity.StorePending, nil)
	m.ObserveReview(entity.StoreRejected, assert.AnError)
	m.SetPending(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.posts.WithLabelValues("scheduled", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.posts.WithLabelValues("manual", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reviews.WithLabelValues("approved", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reviews.WithLabelValues("rejected", "failure")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.pending))
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObservePost(entity.TriggerManual, nil)
		m.ObserveSubmission(nil)
		m.ObserveReview(entity.StorePending, nil)
		m.SetPending(1)
	})
}
