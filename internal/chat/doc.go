// Package chat is a terminal panel for follow-up questions to the reviewer.
//
// Every question is sent together with the whole conversation so far,
// alternating user and assistant turns. Answers are rendered as Markdown.
package chat
