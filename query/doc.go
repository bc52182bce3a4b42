// Package query answers natural-language questions against the vector
// store: an ordered transform chain expands and embeds the question,
// retrieval attaches top-K context, and the answer stage grounds a
// completion in exactly that context. An evaluator tap observes every
// question and can accumulate a serializable evaluation dataset,
// optionally self-recording answers as ground truth.
package query
