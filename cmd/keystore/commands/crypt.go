package commands

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/absfs/keystore"
)

// transform reads stdin, applies fn with the resolved password and algorithm
// and writes the result to stdout
func (o *options) transform(cmd *cobra.Command, op string, fn func(keystore.Algorithm, []byte, []byte) ([]byte, error)) error {
	alg, err := keystore.ParseAlgorithm(o.algorithm)
	if err != nil {
		return err
	}
	password, err := o.resolvePassword(cmd)
	if err != nil {
		return err
	}

	in, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return errors.Wrap(err, "cannot read input")
	}
	out, err := fn(alg, []byte(password), in)
	if err != nil {
		return errors.Wrapf(err, "cannot %s", op)
	}
	if _, err := cmd.OutOrStdout().Write(out); err != nil {
		return errors.Wrap(err, "cannot write output")
	}
	return nil
}

func encryptCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt stdin to stdout in the store file format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.transform(cmd, "encrypt", keystore.Encrypt)
		},
	}
}

func decryptCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a store file from stdin to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.transform(cmd, "decrypt", keystore.Decrypt)
		},
	}
}
