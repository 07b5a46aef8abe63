package cli

import (
	"github.com/spf13/cobra"
)

func newChallengeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "challenge <challenger> <challenged>",
		Short: "Issue a challenge on a player's behalf",
		Long: `Issue a challenge from one connected player to another.

The challenged player receives a challenge notification over their
websocket channel with a server-generated challenge id they can use
to accept.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{
				"challenger": args[0],
				"challenged": args[1],
			}

			var result ChallengeResult
			if err := client.Post("/challenge", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
