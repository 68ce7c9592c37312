// Unprompted runs a notebook and gives unsolicited feedback on every cell.
//
// After each cell finishes, the code together with everything it printed or
// displayed, plots included, is sent to a local vision-language model served
// through an OpenAI-compatible endpoint (Ollama by default). The critique is
// shown right below the cell: a one-line verdict, with the full text folded
// away unless action is required.
//
// Usage:
//
//	unprompted run analysis.ipynb               # critique every cell in the terminal
//	unprompted run nb.yaml --format text,html --out review.html
//	unprompted review --code snippet.py --image plot.png
//	unprompted chat --from review.jsonl         # ask follow-up questions
//	unprompted models list --installed          # models on the local server
//
// Cells starting with a trusted prefix (%bob or %%bob by default) are run but
// never critiqued.
package main
