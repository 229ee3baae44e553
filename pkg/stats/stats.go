package stats

// Stat summarizes the values recorded for one statistic.
// Values holds the recent window the median and variance were computed from, sorted.
type Stat struct {
	Mean     float64 `json:"mean"     msgpack:"mean"`
	Median   float64 `json:"median"   msgpack:"median"`
	Min      int64   `json:"min"      msgpack:"min"`
	Max      int64   `json:"max"      msgpack:"max"`
	Values   []int64 `json:"-"        msgpack:"-"`
	Count    int     `json:"count"    msgpack:"count"`
	Sum      int64   `json:"sum"      msgpack:"sum"`
	Variance float64 `json:"variance" msgpack:"variance"`
}

// Stats maps statistic names to their summaries.
type Stats map[string]*Stat
