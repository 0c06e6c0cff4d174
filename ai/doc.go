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


// Package ai defines the AI collaborator interfaces consumed by counselbase:
// text embedding for semantic search and chat completion for the counselor
// assistant that sits outside the retrieval core.
//
// Calls are synchronous and single-shot: each provider call carries a bounded
// timeout and is never retried automatically. Failures propagate to the
// caller. Implementations live in subpackages (openai for production, mock
// for tests).
package ai
