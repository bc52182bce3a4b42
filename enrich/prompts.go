package enrich

import "fmt"

const codeQAPromptTemplate = `Generate %d question and answer pairs about the code below.

The questions must be answerable from the code alone. Cover what the code
does, its public surface (names, signatures, types) and any notable
behavior or constraint visible in it. Answer each question in one or two
sentences, concisely and factually.

Output only the question and answer pairs, one pair per line, formatted as:
Q: <question>
A: <answer>

Do not include any preamble, numbering, or text outside the pairs.

Code:
` + "```" + `
%s
` + "```"

const textQAPromptTemplate = `Generate %d question and answer pairs about the text below.

The questions must be answerable from the text alone. Prefer questions a
reader searching for this content would ask. Answer each question in one
or two sentences, concisely and factually. Do not invent facts that are
not in the text.

Output only the question and answer pairs, one pair per line, formatted as:
Q: <question>
A: <answer>

Do not include any preamble, numbering, or text outside the pairs.

Text:
%s`

// buildCodeQAPrompt fills the code template with the pair count and the
// chunk text.
func buildCodeQAPrompt(pairs int, text string) string {
	return fmt.Sprintf(codeQAPromptTemplate, pairs, text)
}

// buildTextQAPrompt fills the text template with the pair count and the
// chunk text.
func buildTextQAPrompt(pairs int, text string) string {
	return fmt.Sprintf(textQAPromptTemplate, pairs, text)
}
