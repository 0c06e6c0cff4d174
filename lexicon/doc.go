// Copyright 2025 Poiesic Systems
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


// Package lexicon provides a dictionary-backed gate for free-text queries.
//
// The Gate is a cheap pre-filter in front of the embedding call: a query
// containing any token absent from the dictionary is rejected before an
// embedding-API call is spent on it. It is a blunt heuristic with no fuzzy
// correction; queries containing proper nouns, jargon, or clinical
// terminology missing from the wordlist will be rejected. That
// false-positive-rejection tradeoff is accepted.
package lexicon
