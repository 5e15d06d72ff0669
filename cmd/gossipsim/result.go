package main

// Result is one run's summary, appended as a JSON line to --results-file
// when given.
type Result struct {
	Nodes        int `json:"nodes"`
	Fanout       int `json:"fanout"`
	PeersPerNode int `json:"peers_per_node"`
	Primaries    int `json:"primaries"`

	OverallMean float64 `json:"overall_mean"`
	OverallP50  float64 `json:"overall_p50"`
	OverallP90  float64 `json:"overall_p90"`
	OverallP99  float64 `json:"overall_p99"`

	PrimaryMean   *float64 `json:"primary_mean,omitempty"`
	PrimaryP50    *float64 `json:"primary_p50,omitempty"`
	SecondaryMean *float64 `json:"secondary_mean,omitempty"`
	SecondaryP50  *float64 `json:"secondary_p50,omitempty"`

	LostElements int     `json:"lost_elements"`
	LostPercent  float64 `json:"lost_percent"`
}
