package prompt

import (
	"strings"

	"docchat/internal/domain"
)

// Build assembles the single prompt string handed to the generator. It is a
// pure function of the bounded history window, the retrieved chunks in
// retrieval order and the current question, so its output is testable
// without any live model.
//
// Nothing here truncates beyond those bounds; keeping the combined length
// inside the generation model's input limit is a configuration concern
// (history window and top-k).
func Build(history []domain.QAPair, chunks []domain.Chunk, question string) string {
	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n\n--- CONVERSATION HISTORY ---\n")
	for _, pair := range history {
		b.WriteString("Human: ")
		b.WriteString(pair.Question)
		b.WriteString("\nAI: ")
		b.WriteString(pair.Answer)
		b.WriteString("\n")
	}
	b.WriteString("----------------------------\n")
	b.WriteString("\n--- DOCUMENT CONTEXT ---\n")
	for i, chunk := range chunks {
		if i > 0 {
			b.WriteString(chunkDelimiter)
		}
		b.WriteString(chunk.Text)
	}
	b.WriteString("\n------------------------\n")
	b.WriteString("\nCurrent question: ")
	b.WriteString(question)
	return b.String()
}

const preamble = "You are a technical assistant answering questions about an uploaded document.\n" +
	"Answer the question using only the conversation history and the document context below.\n" +
	"If the context does not contain the answer, say that you could not find it in the document instead of making one up."

const chunkDelimiter = "\n\n"
