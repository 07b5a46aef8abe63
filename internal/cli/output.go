package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"error": err.Error()})
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case UserList:
		o.printUserList(v)
	case ChallengeResult:
		o.printChallengeResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// UserList response type (matches API)
type UserList struct {
	Users []string `json:"users"`
}

// ChallengeResult response type
type ChallengeResult struct {
	Challenger  string `json:"challenger"`
	Challenged  string `json:"challenged"`
	ChallengeID string `json:"challenge_id"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUserList(u UserList) {
	fmt.Printf("Connected users (%d):\n", len(u.Users))
	for _, user := range u.Users {
		fmt.Printf("  - %s\n", user)
	}
}

func (o *Output) printChallengeResult(c ChallengeResult) {
	fmt.Printf("Challenge sent: %s -> %s\n", c.Challenger, c.Challenged)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
