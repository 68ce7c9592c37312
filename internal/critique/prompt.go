package critique

import (
	"fmt"
	"strings"

	"github.com/dshills/unprompted/internal/payload"
	"github.com/dshills/unprompted/internal/providers"
)

const systemPrompt = `You are an excellent data scientist, statistician and programmer. You also know physics and mathematics. You are very critical and will not accept wrong equations, misleading variable names, incorrect comments, etc.
Given a section of code and some outputs, your job is to review the code carefully and give constructive feedback to improve it.
Your feedback must be detailed and include:
* First, what you think the code is doing. Mention all potential issues such as wrong equations, misleading variable names and incorrect comments.
* Second, what the outputs contain or represent and how they relate to the code. Describe images and figures in detail.
* Third, where code and outputs do not align well, or where the code is misleading. Point out if the code does not do what its comments say, and explain what is different, missing or misleading.
* Potential pitfalls and code improvements. Mention typos. If variable names are not descriptive or are misleading, suggest better names. If equations are wrong, say so.
* Say ACTION REQUIRED if anything needs to be done or ALL GOOD if everything is fine. Avoid additional text and formatting.
`

// Example is one few-shot exchange: a cell and the ideal critique of it.
type Example struct {
	Language string
	Code     string
	Outputs  string
	Critique string
}

var examples = []Example{
	{
		Language: "python",
		Code: `# Print numbers from 1 to 3
for i in range(3):
    print(i)`,
		Outputs: "0\n1\n2",
		Critique: `* The code prints the numbers from 0 to 2.
* The output consists of the numbers 0, 1, and 2, as instructed in the code.
* The comment in the code fits neither the code nor the output.
* To make the code do what the comment says, change the range to range(1, 4).
* ACTION REQUIRED
`,
	},
	{
		Language: "python",
		Code: `my_list = ["banana", "apple", "cherry", "date"]

# Sort alphabetically
sorted_list = sorted(my_list)
print(sorted_list)`,
		Outputs: `["apple", "banana", "cherry", "date"]`,
		Critique: `* The code creates a list of fruits as strings, sorts them alphabetically and prints the sorted list.
* The output is an alphabetically sorted list of fruits, as instructed in the code.
* Code and output fit well together.
* The code looks great. I cannot suggest improvements.
* ALL GOOD
`,
	},
	{
		Language: "python",
		Code: `area = speed / distance
print(area)`,
		Outputs: "5",
		Critique: "* The code computes area from speed and distance and prints the result. The equation is wrong.\n" +
			"* The output is a single number: 5, presumably the result of the wrong equation.\n" +
			"* While code and output fit together, the equation is misleading. Speed divided by distance is not an area, and distance divided by speed would be a time.\n" +
			"* The variable `area` should be renamed to `time` and the equation fixed to `distance / speed`.\n" +
			"* ACTION REQUIRED\n",
	},
	{
		Language: "python",
		Code: `# load a text file from disk
with open("test.txt", "r") as f:
    text = f.read()
print(text)`,
		Outputs: "Hello, world!",
		Critique: `* The code loads a text file from disk and prints its content.
* The output is the content of the text file, as instructed in the code.
* Code and output fit well together.
* The code looks great. I cannot suggest improvements.
* ALL GOOD
`,
	},
}

// SystemPrompt returns the reviewer persona and rubric.
func SystemPrompt() string {
	return systemPrompt
}

// Examples returns the few-shot exchanges sent before every cell.
func Examples() []Example {
	out := make([]Example, len(examples))
	copy(out, examples)
	return out
}

// FormatTurn renders a cell the way every user turn presents it.
func FormatTurn(language, code, outputs string) string {
	var b strings.Builder
	b.WriteString("Code:\n")
	fmt.Fprintf(&b, "```%s\n%s\n```\n\n", language, code)
	b.WriteString("Outputs:\n")
	b.WriteString(outputs)
	b.WriteString("\n")
	return b.String()
}

// BuildMessages assembles the full request: system prompt, few-shot
// exchanges, then the current cell with its outputs and images.
func BuildMessages(language, code string, p payload.Payload) []providers.Message {
	msgs := []providers.Message{{Role: providers.RoleSystem, Content: systemPrompt}}

	for _, ex := range examples {
		msgs = append(msgs,
			providers.Message{
				Role:  providers.RoleUser,
				Parts: []providers.Part{providers.TextPart(FormatTurn(ex.Language, ex.Code, ex.Outputs))},
			},
			providers.Message{Role: providers.RoleAssistant, Content: ex.Critique},
		)
	}

	parts := []providers.Part{providers.TextPart(FormatTurn(language, code, p.Outputs()))}
	for _, img := range p.Images {
		parts = append(parts, providers.ImagePart(img.DataURI()))
	}
	msgs = append(msgs, providers.Message{Role: providers.RoleUser, Parts: parts})

	return msgs
}

// BuildChatMessages assembles a follow-up conversation. history alternates
// user and assistant turns, starting with the user.
func BuildChatMessages(history []string, question string) []providers.Message {
	msgs := []providers.Message{{Role: providers.RoleSystem, Content: systemPrompt}}
	for i, turn := range history {
		role := providers.RoleUser
		if i%2 == 1 {
			role = providers.RoleAssistant
		}
		msgs = append(msgs, providers.Message{Role: role, Content: turn})
	}
	msgs = append(msgs, providers.Message{Role: providers.RoleUser, Content: question})
	return msgs
}
