// Package enrich attaches LLM-generated metadata to chunks before
// embedding. The question/answer enrichers make chunks retrievable by
// the questions users ask rather than only by their literal text.
package enrich
