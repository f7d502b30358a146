package data

import (
	"sort"

	"commodity-forecast/internal/model"
)

// Store is the in-memory historical table. It is built once and never
// mutated afterwards, so it is safe for concurrent readers.
type Store struct {
	series    map[model.SeriesKey][]model.Observation
	markets   []string
	varieties map[string][]string
	count     int
}

// NewStore groups observations by (market, variety) and sorts each series by
// date ascending. Rows sharing a date keep their input order.
func NewStore(obs []model.Observation) *Store {
	s := &Store{
		series:    map[model.SeriesKey][]model.Observation{},
		varieties: map[string][]string{},
		count:     len(obs),
	}
	for _, o := range obs {
		key := o.Key()
		if _, ok := s.series[key]; !ok {
			if _, seen := s.varieties[o.Market]; !seen {
				s.markets = append(s.markets, o.Market)
			}
			s.varieties[o.Market] = append(s.varieties[o.Market], o.Variety)
		}
		s.series[key] = append(s.series[key], o)
	}
	for _, rows := range s.series {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Date.Before(rows[j].Date)
		})
	}
	return s
}

// Len returns the number of loaded observations.
func (s *Store) Len() int { return s.count }

// Markets lists distinct markets in first-seen order.
func (s *Store) Markets() []string {
	out := make([]string, len(s.markets))
	copy(out, s.markets)
	return out
}

// Varieties lists distinct varieties traded in market. Unknown markets yield
// an empty slice.
func (s *Store) Varieties(market string) []string {
	v := s.varieties[market]
	out := make([]string, len(v))
	copy(out, v)
	return out
}

// Series returns a copy of the date-sorted rows for (market, variety).
func (s *Store) Series(market, variety string) []model.Observation {
	rows := s.series[model.SeriesKey{Market: market, Variety: variety}]
	out := make([]model.Observation, len(rows))
	copy(out, rows)
	return out
}

// Tail returns a copy of the last n rows of the series (fewer if the series
// is shorter).
func (s *Store) Tail(market, variety string, n int) []model.Observation {
	rows := s.series[model.SeriesKey{Market: market, Variety: variety}]
	if n < len(rows) {
		rows = rows[len(rows)-n:]
	}
	out := make([]model.Observation, len(rows))
	copy(out, rows)
	return out
}

// GroupByMarket splits the store into variety-keyed series for one market.
func (s *Store) GroupByMarket(market string) map[string][]model.Observation {
	out := map[string][]model.Observation{}
	for _, v := range s.varieties[market] {
		out[v] = s.Series(market, v)
	}
	return out
}
