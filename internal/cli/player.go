package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player commands",
	}

	cmd.AddCommand(newPlayerJoinCmd())
	cmd.AddCommand(newPlayerGetCmd())
	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerKillCmd())
	cmd.AddCommand(newPlayerDieCmd())
	cmd.AddCommand(newPlayerNewVictimCmd())

	return cmd
}

func newPlayerJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <code>",
		Short: "Join a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/players", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code> [user-id]",
		Short: "Show a player's state, your own by default",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := cfg.UserID
			if len(args) == 2 {
				id = args[1]
			}
			if id == "" {
				return fmt.Errorf("no user id: pass one or configure --user-id")
			}

			var result Player

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/players/%s", args[0], id), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <code>",
		Short: "List players still alive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayerList

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/players", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerKillCmd() *cobra.Command {
	var weapon string

	cmd := &cobra.Command{
		Use:   "kill <code> <victim-id>",
		Short: "Report killing your victim",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"weapon": weapon}
			var result Player

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/players/%s/kill", args[0], args[1]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&weapon, "weapon", "", "Weapon used (required)")
	_ = cmd.MarkFlagRequired("weapon")

	return cmd
}

func newPlayerDieCmd() *cobra.Command {
	var lastWords string

	cmd := &cobra.Command{
		Use:   "die <code>",
		Short: "Confirm your own death",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.UserID == "" {
				return fmt.Errorf("no user id configured: sign up first or pass --user-id")
			}

			req := map[string]string{"last_words": lastWords}
			var result Player

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/players/%s/die", args[0], cfg.UserID), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&lastWords, "last-words", "", "Parting message")

	return cmd
}

func newPlayerNewVictimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new-victim <code>",
		Short: "Ask for a different victim at the next shuffle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.UserID == "" {
				return fmt.Errorf("no user id configured: sign up first or pass --user-id")
			}

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/players/%s/new-victim", args[0], cfg.UserID), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Reassignment requested")
			return nil
		},
	}
}
