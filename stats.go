package ebidx

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Stats is a Book's prometheus.Collector of search/cache counters: pages
// actually read from a PageSource, the index PageCache's hit/miss split,
// the AND-merge's row-scan volume, and a histogram of pre-search descent
// depth. It is opt-in the way the teacher's collectors are: nothing
// registers it with prometheus.DefaultRegisterer on its own, a caller does
// that with prometheus.Register(book.Stats()) if it wants the metrics
// exported.
type Stats struct {
	pagesRead           uint64
	cacheHits           uint64
	cacheMisses         uint64
	altCacheHits        uint64
	altCacheMisses      uint64
	andMergeRowsScanned uint64

	descentDepth prometheus.Histogram
}

func newStats() *Stats {
	return &Stats{
		descentDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ebidx_descent_depth",
			Help:    "Number of internal index pages visited by a pre-search descent.",
			Buckets: prometheus.LinearBuckets(0, 1, MaxIndexDepth+1),
		}),
	}
}

func (s *Stats) recordPageRead()             { atomic.AddUint64(&s.pagesRead, 1) }
func (s *Stats) recordCacheHit()             { atomic.AddUint64(&s.cacheHits, 1) }
func (s *Stats) recordCacheMiss()            { atomic.AddUint64(&s.cacheMisses, 1) }
func (s *Stats) recordAltCacheHit()          { atomic.AddUint64(&s.altCacheHits, 1) }
func (s *Stats) recordAltCacheMiss()         { atomic.AddUint64(&s.altCacheMisses, 1) }
func (s *Stats) recordAndMergeRows(n int)    { atomic.AddUint64(&s.andMergeRowsScanned, uint64(n)) }
func (s *Stats) recordDescentDepth(depth int) {
	if s.descentDepth != nil {
		s.descentDepth.Observe(float64(depth))
	}
}

var (
	pagesReadDesc = prometheus.NewDesc(
		"ebidx_pages_read_total", "Pages read from the underlying PageSource.", nil, nil)
	cacheHitsDesc = prometheus.NewDesc(
		"ebidx_page_cache_hits_total", "Index page cache hits.", nil, nil)
	cacheMissesDesc = prometheus.NewDesc(
		"ebidx_page_cache_misses_total", "Index page cache misses.", nil, nil)
	altCacheHitsDesc = prometheus.NewDesc(
		"ebidx_alternation_cache_hits_total", "Alternation cache hits.", nil, nil)
	altCacheMissesDesc = prometheus.NewDesc(
		"ebidx_alternation_cache_misses_total", "Alternation cache misses.", nil, nil)
	andMergeRowsDesc = prometheus.NewDesc(
		"ebidx_and_merge_rows_scanned_total", "Rows scanned across all sub-queries by the AND merge.", nil, nil)
)

// Describe implements prometheus.Collector.
func (s *Stats) Describe(ch chan<- *prometheus.Desc) {
	ch <- pagesReadDesc
	ch <- cacheHitsDesc
	ch <- cacheMissesDesc
	ch <- altCacheHitsDesc
	ch <- altCacheMissesDesc
	ch <- andMergeRowsDesc
	s.descentDepth.Describe(ch)
}

// Collect implements prometheus.Collector.
func (s *Stats) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(pagesReadDesc, prometheus.CounterValue, float64(atomic.LoadUint64(&s.pagesRead)))
	ch <- prometheus.MustNewConstMetric(cacheHitsDesc, prometheus.CounterValue, float64(atomic.LoadUint64(&s.cacheHits)))
	ch <- prometheus.MustNewConstMetric(cacheMissesDesc, prometheus.CounterValue, float64(atomic.LoadUint64(&s.cacheMisses)))
	ch <- prometheus.MustNewConstMetric(altCacheHitsDesc, prometheus.CounterValue, float64(atomic.LoadUint64(&s.altCacheHits)))
	ch <- prometheus.MustNewConstMetric(altCacheMissesDesc, prometheus.CounterValue, float64(atomic.LoadUint64(&s.altCacheMisses)))
	ch <- prometheus.MustNewConstMetric(andMergeRowsDesc, prometheus.CounterValue, float64(atomic.LoadUint64(&s.andMergeRowsScanned)))
	s.descentDepth.Collect(ch)
}
