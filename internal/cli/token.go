package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edagames/arena/internal/model"
	"github.com/edagames/arena/internal/services/auth"
)

func newTokenCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "token <identity>",
		Short: "Mint a connection token for an identity",
		Long: `Sign a connection token for the given identity using the server's
shared key. The key must match the server's TOKEN_KEY for the token
to be accepted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				key = os.Getenv("TOKEN_KEY")
			}
			if key == "" {
				return fmt.Errorf("signing key is required (--key or TOKEN_KEY)")
			}

			svc := auth.New(auth.Config{TokenKey: key})
			token, err := svc.Issue(model.ClientID(args[0]))
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}

			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Signing key (env: TOKEN_KEY)")

	return cmd
}
