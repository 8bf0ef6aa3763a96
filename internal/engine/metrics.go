package engine

import "github.com/prometheus/client_golang/prometheus"

var (
	framesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rssd_frames_total",
			Help: "Total number of frames rendered.",
		},
	)

	frameDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rssd_frame_duration_seconds",
			Help:    "Time spent in one scene manager update.",
			Buckets: []float64{.001, .002, .004, .008, .016, .033, .066, .133, .25, .5, 1},
		},
	)

	engineRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rssd_engine_running",
			Help: "1 while the render loop is running.",
		},
	)

	sceneOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rssd_scene_operations_total",
			Help: "Scene loads and unloads by result.",
		},
		[]string{"op", "result"},
	)
)

func init() {
	prometheus.MustRegister(framesTotal)
	prometheus.MustRegister(frameDuration)
	prometheus.MustRegister(engineRunning)
	prometheus.MustRegister(sceneOperations)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
