package answer

import "strings"

const promptTemplate = `You are a helpful assistant analyzing computer usage logs.
Answer clearly and concisely in English based on the data below.


{context}


Respond to the user's question below with a short, direct answer only.


Question: {question}
`

// roleLabels are prefixes models tend to echo back before the answer.
var roleLabels = []string{"Answer:", "A:", "AI:", "Response:"}

// JoinContext flattens retrieved texts into prompt context, one per line.
// No texts yields NoRelevantData.
func JoinContext(texts []string) string {
	lines := make([]string, 0, len(texts))
	for _, t := range texts {
		t = strings.TrimSpace(strings.ReplaceAll(t, "\n", " "))
		if t != "" {
			lines = append(lines, t)
		}
	}
	if len(lines) == 0 {
		return NoRelevantData
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt embeds the context and question in the generation prompt.
func BuildPrompt(context, question string) string {
	r := strings.NewReplacer("{context}", context, "{question}", strings.TrimSpace(question))
	return r.Replace(promptTemplate)
}

// StripRoleLabels keeps only the text after the last role label, in label
// order, and trims surrounding space.
func StripRoleLabels(text string) string {
	for _, label := range roleLabels {
		if i := strings.LastIndex(text, label); i >= 0 {
			text = text[i+len(label):]
		}
	}
	return strings.TrimSpace(text)
}
