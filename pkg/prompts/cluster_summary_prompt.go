package prompts

import (
	_ "embed"
)

//go:embed templates/cluster_summary.tmpl
var clusterSummaryPromptTemplate string

type ClusterSummaryItem struct {
	SourceType string
	Text       string
}

type ClusterSummaryPrompt struct {
	Items []ClusterSummaryItem
}

// BuildClusterSummaryPrompt asks for one sentence describing the interests
// behind a cluster's representative items.
func BuildClusterSummaryPrompt(data ClusterSummaryPrompt) (string, error) {
	return render("cluster_summary", clusterSummaryPromptTemplate, data)
}
