package present

import (
	"fmt"
	"html"

	"github.com/russross/blackfriday/v2"
)

// Block kinds.
const (
	KindBanner   = "banner"
	KindCritique = "critique"
)

// Block is one piece of rendered feedback.
type Block struct {
	Kind           string
	Summary        string
	Markdown       string
	HTML           string
	ActionRequired bool
}

// MarkdownToHTML converts lightweight markup to HTML.
func MarkdownToHTML(md string) string {
	return string(blackfriday.Run([]byte(md)))
}

// Critique renders a critique as a collapsible block.
func Critique(text string) Block {
	headline := Headline(text)
	return Block{
		Kind:           KindCritique,
		Summary:        headline,
		Markdown:       text,
		HTML:           fmt.Sprintf("<details><summary>%s</summary>\n%s\n</details>", html.EscapeString(headline), MarkdownToHTML(text)),
		ActionRequired: ActionRequired(text),
	}
}

// Banner renders the one-time introduction shown for the first cell.
func Banner(version string) Block {
	text := fmt.Sprintf("👋 Hi, I'm unprompted %s. In the following cells I will interpret your code, "+
		"read the outputs of executions, provide feedback and suggest improvements. "+
		"If you want me to be quiet, run the notebook without unprompted.", version)
	return Block{
		Kind:     KindBanner,
		Summary:  text,
		Markdown: text,
		HTML:     "<small>" + html.EscapeString(text) + "</small>",
	}
}
