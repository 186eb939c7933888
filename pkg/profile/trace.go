package profile

import (
	"time"

	"github.com/EternisAI/persona/pkg/content"
	"github.com/EternisAI/persona/pkg/vector"
)

const (
	traceMaxClusters     = 12
	traceMaxMembers      = 10
	traceCentroidDims    = 64
	traceCentroidDecimal = 4
)

// Trace exposes the intermediate state of a run for inspection.
type Trace struct {
	RunID         string         `json:"runId"`
	Timestamp     time.Time      `json:"timestamp"`
	ItemCount     int            `json:"itemCount"`
	SelectedCount int            `json:"selectedCount"`
	DedupedCount  int            `json:"dedupedCount"`
	K             int            `json:"k"`
	SeedInterests []string       `json:"seedInterests"`
	SeedSource    string         `json:"seedSource,omitempty"`
	Clusters      []ClusterTrace `json:"clusters"`
}

type ClusterTrace struct {
	Index           int              `json:"index"`
	Size            int              `json:"size"`
	Summary         string           `json:"summary"`
	Error           string           `json:"error,omitempty"`
	Representatives []Representative `json:"representatives"`
	Centroid        []float64        `json:"centroid"`
	Members         []Evidence       `json:"members"`
}

func newClusterTrace(index int, members []int, centroid []float64, outcome clusterOutcome, items []content.Item) ClusterTrace {
	ct := ClusterTrace{
		Index:           index,
		Size:            len(members),
		Summary:         outcome.Summary.SummaryText,
		Representatives: outcome.Summary.Representatives,
		Centroid:        vector.Shrink(centroid, traceCentroidDims, traceCentroidDecimal),
		Members:         make([]Evidence, 0, min(len(members), traceMaxMembers)),
	}
	if outcome.Err != nil {
		ct.Error = outcome.Err.Error()
	}
	for _, idx := range members[:min(len(members), traceMaxMembers)] {
		ct.Members = append(ct.Members, evidenceFromItem(items[idx]))
	}
	return ct
}
