package answering

import "github.com/poiesic/lectern/core"

// AnswerMonitor provides hooks to observe the answering process.
// Implement this interface to track intermediate steps while a question
// is being answered.
type AnswerMonitor interface {
	Start(question string)
	AfterEmbedding(vector []float32)
	AfterRetrieval(chunks []core.RetrievedChunk)
	GenerationSkipped()
	AfterGeneration(answer string)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of AnswerMonitor
type noopMonitor struct{}

var _ AnswerMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterEmbedding(_ []float32)             {}
func (n *noopMonitor) AfterRetrieval(_ []core.RetrievedChunk) {}
func (n *noopMonitor) GenerationSkipped()                     {}
func (n *noopMonitor) AfterGeneration(_ string)               {}
func (n *noopMonitor) Finish(_ *Result)                       {}
