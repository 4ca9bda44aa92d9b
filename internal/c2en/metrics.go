package c2en

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	translationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "c2en_translations_total",
			Help: "number of successful translations per source file",
		},
		[]string{"source"})

	translationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "c2en_translation_errors_total",
			Help: "number of failed translations per source file",
		},
		[]string{"source"})

	cacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "c2en_translation_cache_hits_total",
			Help: "number of translations served from the output cache",
		})
)
