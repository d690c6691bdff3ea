package answering

import (
	"fmt"
	"strings"

	"github.com/poiesic/lectern/core"
)

const answerPromptTemplate = `Based on the text provided below as context, answer the question clearly and precisely in %s.

CONTEXT:
%s

QUESTION:
%s

INSTRUCTIONS:
- Use only information provided in the context;
- If the answer cannot be found in the context, just reply that there is not enough information to answer;
- Be objective;
- Keep an educational and professional tone;
- Cite relevant excerpts from the context when appropriate;
- When citing the context, refer to it as "class content".`

// buildAnswerPrompt assembles the generation prompt from the retrieved
// chunks. Chunks are joined in retrieval order, best match first.
func buildAnswerPrompt(question string, chunks []core.RetrievedChunk, language string) string {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	context := strings.Join(texts, "\n\n")

	return fmt.Sprintf(answerPromptTemplate, language, context, question)
}
