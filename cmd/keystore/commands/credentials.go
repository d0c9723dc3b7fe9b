package commands

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/absfs/keystore"
)

func getCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <service> <account>",
		Short: "Print the secret stored for an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withStore(cmd, func(s *keystore.Store) error {
				secret, ok, err := s.GetPassword(args[0], args[1])
				if err != nil {
					return errors.Wrapf(err, "cannot get %s/%s", args[0], args[1])
				}
				if !ok {
					return ErrNotFound
				}
				fmt.Fprintln(cmd.OutOrStdout(), secret)
				return nil
			})
		},
	}
}

func setCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set <service> <account> [secret]",
		Short: "Store a secret unless the account already has one",
		Long: "Store a secret unless the account already has one. Without a secret\n" +
			"argument nothing is stored. Prints true when the secret was stored.",
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withStore(cmd, func(s *keystore.Store) error {
				stored, err := s.SetPassword(args[0], args[1], args[2:]...)
				if err != nil {
					return errors.Wrapf(err, "cannot set %s/%s", args[0], args[1])
				}
				fmt.Fprintln(cmd.OutOrStdout(), stored)
				return nil
			})
		},
	}
}

func replaceCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "replace <service> <account> <secret>",
		Short: "Store a secret, overwriting any existing one",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withStore(cmd, func(s *keystore.Store) error {
				replaced, err := s.ReplacePassword(args[0], args[1], args[2])
				if err != nil {
					return errors.Wrapf(err, "cannot replace %s/%s", args[0], args[1])
				}
				fmt.Fprintln(cmd.OutOrStdout(), replaced)
				return nil
			})
		},
	}
}

func findCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "find <service>",
		Short: "Print the secret of some account under a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withStore(cmd, func(s *keystore.Store) error {
				secret, ok, err := s.FindPassword(args[0])
				if err != nil {
					return errors.Wrapf(err, "cannot find %s", args[0])
				}
				if !ok {
					return ErrNotFound
				}
				fmt.Fprintln(cmd.OutOrStdout(), secret)
				return nil
			})
		},
	}
}

func deleteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <service> <account>",
		Short: "Remove an account and print the secret it held",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withStore(cmd, func(s *keystore.Store) error {
				secret, ok, err := s.DeletePassword(args[0], args[1])
				if err != nil {
					return errors.Wrapf(err, "cannot delete %s/%s", args[0], args[1])
				}
				if !ok {
					return ErrNotFound
				}
				fmt.Fprintln(cmd.OutOrStdout(), secret)
				return nil
			})
		},
	}
}

func listCmd(o *options) *cobra.Command {
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "list [service]",
		Short: "List services, or the accounts of one service",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withStore(cmd, func(s *keystore.Store) error {
				out := cmd.OutOrStdout()
				if len(args) == 0 {
					services, err := s.Services()
					if err != nil {
						return errors.Wrap(err, "cannot list services")
					}
					for _, service := range services {
						fmt.Fprintln(out, service)
					}
					return nil
				}

				creds, err := s.FindCredentials(args[0])
				if err != nil {
					return errors.Wrapf(err, "cannot list %s", args[0])
				}
				for _, c := range creds {
					if showSecrets {
						fmt.Fprintf(out, "%s\t%s\n", c.Account, c.Secret)
					} else {
						fmt.Fprintln(out, c.Account)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&showSecrets, "secrets", false, "print secrets next to account names")
	return cmd
}

func algorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the accepted algorithm names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range keystore.AlgorithmNames() {
				alg, _ := keystore.ParseAlgorithm(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, alg)
			}
			return nil
		},
	}
}
