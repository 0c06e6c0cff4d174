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


// Package search orchestrates semantic retrieval over the transcript corpus.
//
// A query passes three stages:
//   - Lexical gating: queries containing tokens outside the known lexicon
//     are rejected before any embedding work happens.
//   - Embedding: accepted queries are converted to a vector by the
//     configured AI provider.
//   - Ranking: the corpus is ranked by cosine distance to the query vector
//     and the closest examples are returned, nearest first.
//
// A rejected query and an empty corpus are ordinary outcomes, not errors;
// the Result's Outcome field tells them apart from a successful match.
package search
