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


package chunk

import (
	"fmt"
	"slices"

	"github.com/go-enry/go-enry/v2"
)

// ForLanguage creates a code chunker for a language name, resolved
// through the linguist database (go-enry). Returns ErrUnknownLanguage
// when the language is not recognized.
func ForLanguage(language string, config Config) (*Code, error) {
	canonical, extensions := resolveLanguage(language)
	if len(extensions) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}
	return NewCode(canonical, config)
}

// Extensions returns the file extensions indexed for a language:
// the language's own extensions plus ".md" so project documentation
// rides along. Returns ErrUnknownLanguage when the language is not
// recognized.
func Extensions(language string) ([]string, error) {
	_, extensions := resolveLanguage(language)
	if len(extensions) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}
	// enry hands out its internal extension slice; never append in place.
	return append(slices.Clone(extensions), ".md"), nil
}

// resolveLanguage normalizes a user-supplied language name via enry's
// alias table and returns its canonical name and known extensions.
func resolveLanguage(language string) (string, []string) {
	canonical, ok := enry.GetLanguageByAlias(language)
	if !ok {
		canonical = language
	}
	return canonical, enry.GetLanguageExtensions(canonical)
}

// IsMarkdownPath reports whether the path belongs on the markdown
// branch of the ingestion pipeline.
func IsMarkdownPath(path string) bool {
	lang, _ := enry.GetLanguageByExtension(path)
	return lang == "Markdown"
}
