package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/steosofficial/steosmorphy/v2/analyzer"
)

var (
	// requestsTotal считает запросы по обработчику и коду ответа.
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "steosmorphy_http_requests_total",
		Help: "Total HTTP requests by handler and status code",
	}, []string{"handler", "code"})

	// requestDuration - время обработки запроса.
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "steosmorphy_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
	}, []string{"handler"})

	// wordsParsed считает разобранные слова по происхождению лучшего разбора.
	wordsParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "steosmorphy_words_parsed_total",
		Help: "Total parsed words by origin of the best parse",
	}, []string{"origin"})

	// parsesPerWord - число вариантов разбора одного слова.
	parsesPerWord = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "steosmorphy_parses_per_word",
		Help:    "Number of parse candidates per word",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
	})
)

// instrument оборачивает обработчик счетчиком и гистограммой задержек.
func instrument(name string, h http.Handler) http.Handler {
	labels := prometheus.Labels{"handler": name}
	return promhttp.InstrumentHandlerDuration(
		requestDuration.MustCurryWith(labels),
		promhttp.InstrumentHandlerCounter(requestsTotal.MustCurryWith(labels), h),
	)
}

// observeParse учитывает результат разбора слова.
func observeParse(result analyzer.ParseResult) {
	parsesPerWord.Observe(float64(len(result)))
	origin := "none"
	if len(result) > 0 {
		switch best := result[0]; {
		case best.Lex.IsKnown():
			origin = "known"
		case best.Score.IsFake():
			origin = "unknown"
		default:
			origin = "analogy"
		}
	}
	wordsParsed.WithLabelValues(origin).Inc()
}
