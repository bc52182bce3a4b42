package query

import (
	"fmt"
	"strings"
)

const subquestionsPromptTemplate = `Break the question below into %d short sub-questions that would help
answer it. The sub-questions should cover different aspects of the
original question and improve recall when searching a technical corpus.

Respond only with the sub-questions, one per line, no numbering and no
other text.

Question: %s`

const answerPromptTemplate = `Answer the question based strictly on the provided context. Do not use
any outside knowledge. If the context does not contain the answer, say
that you cannot answer from the indexed documents.

## Context
%s

## Question
%s

Answer concisely and factually.`

const generateQuestionsPromptTemplate = `Your goal is to generate %d questions about the given project
description. Questions can be about the project, how different parts can
be used, features, architecture, testing, dependencies, and so on.

# Requirements
* Only respond with the questions, separated by a new line with no other text.
* Questions should be varied and concise.
* Provide a balance of technical questions and questions that explore the
  meaning and usage of the project.
* Questions must be a single line each.
* Questions can not include markdown.

# Project description
%s`

func buildSubquestionsPrompt(count int, question string) string {
	return fmt.Sprintf(subquestionsPromptTemplate, count, question)
}

func buildAnswerPrompt(contexts []string, question string) string {
	return fmt.Sprintf(answerPromptTemplate, strings.Join(contexts, "\n\n---\n\n"), question)
}

func buildGenerateQuestionsPrompt(count int, description string) string {
	return fmt.Sprintf(generateQuestionsPromptTemplate, count, description)
}
