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

package openai

import "errors"

var errNoChoices = errors.New("model returned no answer")

// answerSystemPrompt constrains generated answers to the supplied articles.
const answerSystemPrompt = `You answer questions for a company knowledge base.
Use only the articles provided in the user message.
If the articles do not answer the question, say so in one sentence.
Cite the title of each article you rely on.
Answer in plain text, at most two short paragraphs.`
