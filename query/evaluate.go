// Copyright 2026 Quarry Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package query

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/quarryhq/quarry/core"
)

// Evaluator observes every question flowing through the pipeline. Hooks
// fire as states complete; implementations must tolerate questions they
// have never seen before (ad hoc queries).
type Evaluator interface {
	QueryStarted(q *core.Question)
	QueryTransformed(q *core.Question)
	ContextRetrieved(q *core.Question)
	QueryAnswered(q *core.Question)
	QueryFailed(q *core.Question, err error)
}

// Noop is an Evaluator that records nothing.
type Noop struct{}

var _ Evaluator = Noop{}

func (Noop) QueryStarted(*core.Question)        {}
func (Noop) QueryTransformed(*core.Question)    {}
func (Noop) ContextRetrieved(*core.Question)    {}
func (Noop) QueryAnswered(*core.Question)       {}
func (Noop) QueryFailed(*core.Question, error)  {}

// Sample is one evaluation dataset entry: a question with its retrieved
// context, generated answer, and optional ground truth.
type Sample struct {
	Question    string   `json:"question"`
	GroundTruth string   `json:"ground_truth,omitempty"`
	Contexts    []string `json:"contexts"`
	Answer      string   `json:"answer,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Dataset is an ordered evaluation dataset keyed by question text. It
// implements Evaluator, so it accumulates context and answers as
// questions complete, and serializes into the JSON report consumed by
// external scorers.
type Dataset struct {
	mu      sync.Mutex
	samples []*Sample
	index   map[string]*Sample
}

var _ Evaluator = (*Dataset)(nil)

// NewDataset creates an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{index: make(map[string]*Sample)}
}

// FromQuestions creates a dataset from literal question strings.
func FromQuestions(questions []string) *Dataset {
	d := NewDataset()
	for _, q := range questions {
		d.ensure(q)
	}
	return d
}

// Load reads a dataset file: either an array of samples or an object
// mapping question text to its ground-truth answer.
func Load(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}

	d := NewDataset()

	var samples []*Sample
	if err := json.Unmarshal(raw, &samples); err == nil {
		for _, s := range samples {
			if s.Question == "" {
				continue
			}
			d.samples = append(d.samples, s)
			d.index[s.Question] = s
		}
		return d, nil
	}

	var pairs map[string]string
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}
	for question, truth := range pairs {
		s := d.ensure(question)
		s.GroundTruth = truth
	}
	return d, nil
}

func (d *Dataset) ensure(question string) *Sample {
	if s, ok := d.index[question]; ok {
		return s
	}
	s := &Sample{Question: question}
	d.samples = append(d.samples, s)
	d.index[question] = s
	return s
}

// Questions returns the dataset's questions in insertion order.
func (d *Dataset) Questions() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.samples))
	for i, s := range d.samples {
		out[i] = s.Question
	}
	return out
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.samples)
}

// Sample returns the entry for a question, if present.
func (d *Dataset) Sample(question string) (Sample, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.index[question]
	if !ok {
		return Sample{}, false
	}
	return *s, true
}

// RecordAnswersAsGroundTruth copies each generated answer into its
// sample's ground-truth slot. Self-labeling only makes sense when no
// independent ground truth exists yet; existing truths are overwritten
// deliberately.
func (d *Dataset) RecordAnswersAsGroundTruth() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.samples {
		if s.Answer != "" {
			s.GroundTruth = s.Answer
		}
	}
}

// QueryStarted registers the question if it is not in the dataset yet.
func (d *Dataset) QueryStarted(q *core.Question) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensure(q.Original)
}

// QueryTransformed is a no-op; transformed forms are not persisted.
func (d *Dataset) QueryTransformed(q *core.Question) {}

// ContextRetrieved records the retrieved context passages.
func (d *Dataset) ContextRetrieved(q *core.Question) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensure(q.Original).Contexts = q.Context()
}

// QueryAnswered records the generated answer.
func (d *Dataset) QueryAnswered(q *core.Question) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensure(q.Original).Answer = q.Answer
}

// QueryFailed records the question's terminal error.
func (d *Dataset) QueryFailed(q *core.Question, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensure(q.Original).Error = err.Error()
}

// MarshalJSON serializes the samples in insertion order.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return json.Marshal(d.samples)
}

// WriteJSON writes the report to path.
func (d *Dataset) WriteJSON(path string) error {
	d.mu.Lock()
	samples := d.samples
	d.mu.Unlock()

	raw, err := json.MarshalIndent(samples, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing dataset: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("writing dataset %s: %w", path, err)
	}
	return nil
}
