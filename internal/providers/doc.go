// Package providers implements the Auditor interface for each supported LLM
// provider.
//
// Supported providers: Anthropic (Claude), OpenAI (GPT), Google (Gemini), and
// Ollama / LMStudio for local models.
//
// All providers share a common retry helper with exponential back-off and
// rate-limit handling. The HTTP providers honor base-URL environment
// overrides so that tests can redirect calls to local httptest servers
// without making live API requests; Gemini uses the official genai SDK.
//
// Use [New] to obtain an Auditor by provider name and model string.
package providers
