package cache

// Stats tracks cache performance counters.
type Stats struct {
	Hits         int64   `json:"hits"`
	NegativeHits int64   `json:"negative_hits"`
	Misses       int64   `json:"misses"`
	Evictions    int64   `json:"evictions"`
	Expired      int64   `json:"expired"`
	Entries      int     `json:"entries"`
	HitRate      float64 `json:"hit_rate"`
}
