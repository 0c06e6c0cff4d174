package search

import "github.com/poiesic/counselbase/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	QueryRejected(query string, unknown []string)
	AfterEmbedding(dimensions int)
	AfterRanking(ranked []*core.RankedTranscript)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) QueryRejected(_ string, _ []string)     {}
func (n *noopMonitor) AfterEmbedding(_ int)                   {}
func (n *noopMonitor) AfterRanking(_ []*core.RankedTranscript) {}
func (n *noopMonitor) Finish(_ *Result)                       {}
