// Package redact removes secrets from cell sources and outputs before they
// are sent to any model endpoint.
//
// Each kind of secret is a named regex rule. Token formats (AWS, GitHub,
// Hugging Face, Slack, Anthropic, OpenAI, Google, JWT) are replaced whole.
// Assignments, bearer headers, Jupyter server URLs and connection strings
// keep their surrounding text and only lose the secret value, so the model
// still sees what the line does. Notebooks tend to print credentials they
// just loaded, so outputs are scanned as well as code.
package redact
