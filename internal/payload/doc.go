// Package payload turns a cell's captured outputs into the text fragments and
// image attachments of a chat message.
//
// Text items are kept in capture order. Each image becomes an attachment
// sent as a base64 data: URI, and its place in the text is marked with a
// numbered placeholder so the model can tell which output it belongs to.
package payload
