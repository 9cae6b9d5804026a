package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BetsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracket_wager_bets_placed_total",
		Help: "Number of bets accepted.",
	})
	MatchesResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bracket_wager_matches_resolved_total",
		Help: "Number of match results recorded.",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
