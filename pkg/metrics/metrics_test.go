package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then collectors are registered under the drafter namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.catalogHeroes.Set(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "drafter_api_"), ShouldBeTrue)
				}
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("draft"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.recommendationsServed.Inc()

			Convey("Then names and labels follow the options", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_draft_recommendations_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty option values are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil), WithPrometheusRegistry(registry))

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "drafter")
				So(manager.subsystem, ShouldEqual, "api")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording a recommendation", func() {
			served := read(globalManager.recommendationsServed)
			scored := read(globalManager.candidatesScored)
			RecordRecommendation(120, 3*time.Millisecond)

			Convey("Then request and candidate counters advance", func() {
				So(read(globalManager.recommendationsServed), ShouldEqual, served+1)
				So(read(globalManager.candidatesScored), ShouldEqual, scored+120)
			})
		})

		Convey("When recording catalog loads", func() {
			before := read(globalManager.catalogLoads.WithLabelValues("failure"))
			RecordCatalogLoad("failure", time.Second)
			UpdateCatalogHeroes(124)

			Convey("Then the labelled counter and gauge change", func() {
				So(read(globalManager.catalogLoads.WithLabelValues("failure")), ShouldEqual, before+1)
				So(read(globalManager.catalogHeroes), ShouldEqual, 124)
			})
		})

		Convey("When updating dataset freshness", func() {
			UpdateDatasetFreshness(90*time.Second, true)
			So(read(globalManager.datasetAgeSeconds), ShouldEqual, 90)
			So(read(globalManager.datasetStale), ShouldEqual, 0)

			UpdateDatasetFreshness(0, false)
			So(read(globalManager.datasetStale), ShouldEqual, 1)
		})

		Convey("When recording HTTP, refresh and system metrics", func() {
			So(func() {
				RecordHTTPRequest("/recommend", "POST", "200")
				RecordHTTPRequestDuration("/recommend", "POST", "200", 1.5)
				RecordErrorByEndpoint("/recommend", "POST", "bad_request")
				RecordRefreshRun("success")
				RecordWatcherReload()
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
			}, ShouldNotPanic)
			So(read(globalManager.systemGoroutineCount), ShouldEqual, 12)
		})

		Convey("When gathering the custom registry", func() {
			_, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
		})
	})
}

func read(m prometheus.Metric) float64 {
	var d dto.Metric
	if err := m.Write(&d); err != nil {
		return -1
	}
	if d.Counter != nil {
		return d.GetCounter().GetValue()
	}
	return d.GetGauge().GetValue()
}
