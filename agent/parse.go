package agent

import (
	"regexp"
	"strings"

	"github.com/m4xw311/chainsight/schema"
)

var (
	actionRe = regexp.MustCompile(`(?m)^Action:\s*(.+)\s*$`)
	inputRe  = regexp.MustCompile(`(?m)^Action Input:\s*(.+)\s*$`)
	finalRe  = regexp.MustCompile(`(?s)Final Answer:\s*(.*)`)
)

// parseOutput reads the model's reply in the Thought/Action/Action
// Input format. A "Final Answer:" marker wins over any action text
// before it. Replies matching neither shape are treated as a final
// answer, so a model that skips the format still terminates the loop.
func parseOutput(text string) (*schema.AgentAction, *schema.AgentFinish) {
	if m := finalRe.FindStringSubmatch(text); m != nil {
		return nil, &schema.AgentFinish{
			ReturnValues: map[string]any{"output": strings.TrimSpace(m[1])},
			Log:          text,
		}
	}

	action := actionRe.FindStringSubmatch(text)
	if action == nil {
		return nil, &schema.AgentFinish{
			ReturnValues: map[string]any{"output": strings.TrimSpace(text)},
			Log:          text,
		}
	}

	input := ""
	if m := inputRe.FindStringSubmatch(text); m != nil {
		input = strings.TrimSpace(m[1])
	}

	return &schema.AgentAction{
		Tool:      strings.TrimSpace(action[1]),
		ToolInput: input,
		Log:       text,
	}, nil
}
