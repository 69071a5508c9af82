package search

import "github.com/poiesic/kbsearch/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterEmbed(vector []float32)
	AfterScan(candidates int)
	AfterRank(results []*core.RankedResult)
	Finish(resp *Response)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                   {}
func (n *noopMonitor) AfterEmbed(_ []float32)           {}
func (n *noopMonitor) AfterScan(_ int)                  {}
func (n *noopMonitor) AfterRank(_ []*core.RankedResult) {}
func (n *noopMonitor) Finish(_ *Response)               {}
