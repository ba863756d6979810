package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// inboundTotal counts processed deliveries by pipeline outcome.
	inboundTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sms_inbound_total",
			Help: "Inbound SMS deliveries by pipeline outcome.",
		},
		[]string{"outcome"},
	)

	// outboundParts counts individual SMS parts handed to the sender.
	outboundParts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sms_outbound_parts_total",
			Help: "Outbound SMS parts by send result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(inboundTotal, outboundParts)
}
