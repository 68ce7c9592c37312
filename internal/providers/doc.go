// Package providers implements the Reviewer interface for chat-completion
// endpoints that accept images.
//
// Supported providers: Ollama / LM Studio for local vision-language models
// (the default, no API key), OpenAI, and the hosted Anthropic and Gemini
// APIs, which get the same messages mapped onto their own formats.
//
// Requests carry an ordered list of messages whose content is either a plain
// string or a list of text and image_url parts, so images can travel as
// base64 data URIs next to the prompt text. Calls are made once: there is no
// retry and no client timeout, cancellation comes from the context.
//
// HTTP clients are injected via a struct field so that tests can redirect
// calls to local httptest servers without making live API requests.
//
// Use [New] to obtain a Reviewer by provider name, endpoint and model string.
package providers
