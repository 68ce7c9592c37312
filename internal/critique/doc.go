// Package critique builds the review request for a notebook cell and sends
// it to a chat-completion model.
//
// Every request has the same shape: a fixed system prompt with the reviewer
// persona and rubric, four few-shot exchanges (cell in, ideal critique out),
// then one user turn holding the cell's source, its text outputs with
// "[imgN]" placeholders, and the images themselves as data URIs. Temperature
// is always 0.
//
// Secrets are redacted before the request is built, and responses can be
// served from the on-disk cache.
package critique
