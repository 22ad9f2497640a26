package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	likesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_likes_total",
			Help: "Total number of like edges created",
		},
	)

	unlikesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_unlikes_total",
			Help: "Total number of like edges removed",
		},
	)

	matchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_matches_total",
			Help: "Total number of mutual matches formed",
		},
	)

	blocksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_blocks_total",
			Help: "Total number of blocks created",
		},
	)

	candidateScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_candidate_scores",
			Help:    "Distribution of candidate scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
)

func RecordLike()   { likesTotal.Inc() }
func RecordUnlike() { unlikesTotal.Inc() }
func RecordMatch()  { matchesTotal.Inc() }
func RecordBlock()  { blocksTotal.Inc() }

func RecordScore(score float64) { candidateScores.Observe(score) }
