package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Quote results recorded by PricingMetrics.
const (
	ResultOK             = "ok"
	ResultUnknownProduct = "unknown_product"
	ResultInvalid        = "invalid"
	ResultIntegrity      = "integrity_error"
)

// PricingMetrics tracks pricing pipeline outcomes.
type PricingMetrics struct {
	QuotesTotal    *prometheus.CounterVec
	CouponOutcomes *prometheus.CounterVec
	Savings        prometheus.Histogram
	GrandTotal     prometheus.Histogram
	CacheLookups   *prometheus.CounterVec
}

// NewPricingMetrics registers and returns pricing collectors.
func NewPricingMetrics(namespace string, reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	amountBuckets := prometheus.ExponentialBuckets(10, 4, 8)
	return &PricingMetrics{
		QuotesTotal: Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "Count of bill calculations by result.",
		}, []string{"result"})),
		CouponOutcomes: Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_outcomes_total",
			Help:      "Count of coupon evaluations by outcome.",
		}, []string{"outcome"})),
		Savings: Register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bill_savings",
			Help:      "Distribution of total savings per bill in currency units.",
			Buckets:   amountBuckets,
		})),
		GrandTotal: Register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bill_grand_total",
			Help:      "Distribution of grand totals per bill in currency units.",
			Buckets:   amountBuckets,
		})),
		CacheLookups: Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_cache_lookups_total",
			Help:      "Count of quote cache lookups by result.",
		}, []string{"result"})),
	}
}

// ObserveQuote records a quote result. Nil receivers are ignored.
func (m *PricingMetrics) ObserveQuote(result string) {
	if m == nil {
		return
	}
	m.QuotesTotal.WithLabelValues(result).Inc()
}

// ObserveBill records the amounts and coupon outcome of a successful bill.
func (m *PricingMetrics) ObserveBill(couponOutcome string, savings, grandTotal float64) {
	if m == nil {
		return
	}
	m.CouponOutcomes.WithLabelValues(couponOutcome).Inc()
	m.Savings.Observe(savings)
	m.GrandTotal.Observe(grandTotal)
}

// ObserveCache records a cache hit or miss.
func (m *PricingMetrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
