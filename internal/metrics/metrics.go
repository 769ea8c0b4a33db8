// Package metrics exposes Prometheus metrics for state transitions and RPC traffic.
package metrics

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/state"
)

// Metrics holds all Prometheus metrics for settleup.
type Metrics struct {
	// --- State ---
	Transitions    *prometheus.CounterVec
	ActiveExpenses prometheus.Gauge
	ActiveAmount   prometheus.Gauge
	SettledBills   prometheus.Gauge
	Members        prometheus.Gauge

	// --- Settlement ---
	SettlementTransactions prometheus.Histogram
	SettledAmount          prometheus.Counter

	// --- RPC ---
	RPCRequests *prometheus.CounterVec
	RPCDuration *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "settleup_state_transitions_total",
			Help: "State transitions committed, by kind",
		}, []string{"kind"}),

		ActiveExpenses: factory.NewGauge(prometheus.GaugeOpts{
			Name: "settleup_active_expenses",
			Help: "Expenses waiting to be settled",
		}),

		ActiveAmount: factory.NewGauge(prometheus.GaugeOpts{
			Name: "settleup_active_amount",
			Help: "Total amount of the expenses waiting to be settled",
		}),

		SettledBills: factory.NewGauge(prometheus.GaugeOpts{
			Name: "settleup_settled_bills",
			Help: "Settled bills in the history",
		}),

		Members: factory.NewGauge(prometheus.GaugeOpts{
			Name: "settleup_members",
			Help: "Members on the roster",
		}),

		SettlementTransactions: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "settleup_settlement_transactions",
			Help:    "Transactions produced by one settlement",
			Buckets: prometheus.LinearBuckets(0, 2, 10),
		}),

		SettledAmount: factory.NewCounter(prometheus.CounterOpts{
			Name: "settleup_settled_amount_total",
			Help: "Sum of the expense amounts settled",
		}),

		RPCRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "settleup_rpc_requests_total",
			Help: "RPC requests handled, by procedure and code",
		}, []string{"procedure", "code"}),

		RPCDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "settleup_rpc_duration_seconds",
			Help:    "RPC handling time",
			Buckets: prometheus.DefBuckets,
		}, []string{"procedure"}),
	}
}

// Attach subscribes the metrics to m and records its current state.
func (m *Metrics) Attach(mgr *state.Manager) {
	m.setGauges(mgr.Snapshot())
	mgr.Subscribe(m.Observe)
}

// Observe records a state transition.
func (m *Metrics) Observe(t state.Transition) {
	m.Transitions.WithLabelValues(string(t.Kind)).Inc()
	if t.Kind == state.KindSettled && t.Bill != nil {
		m.SettlementTransactions.Observe(float64(len(t.Bill.Transactions)))
		m.SettledAmount.Add(models.TotalAmount(t.Bill.Expenses))
	}
	m.setGauges(t.Next)
}

func (m *Metrics) setGauges(s state.Snapshot) {
	m.ActiveExpenses.Set(float64(len(s.Expenses)))
	m.ActiveAmount.Set(models.TotalAmount(s.Expenses))
	m.SettledBills.Set(float64(len(s.History)))
	m.Members.Set(float64(len(s.Members)))
}

// Interceptor returns a Connect interceptor that counts and times every RPC.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.RPCRequests.WithLabelValues(procedure, code).Inc()
			m.RPCDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}
