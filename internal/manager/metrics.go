package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	pipelineLoads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "genaid",
		Subsystem: "engine",
		Name:      "pipeline_loads_total",
		Help:      "Total number of pipeline constructions (model loads)",
	})

	generatedTokens = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "genaid",
		Subsystem: "engine",
		Name:      "generated_tokens_total",
		Help:      "Total tokens generated across all generate calls",
	})

	promptTokens = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "genaid",
		Subsystem: "engine",
		Name:      "prompt_tokens_total",
		Help:      "Total prompt tokens consumed across all generate calls",
	})

	generateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "genaid",
		Subsystem: "engine",
		Name:      "generate_duration_seconds",
		Help:      "Engine-reported generation duration in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(pipelineLoads, generatedTokens, promptTokens, generateDuration)
}
