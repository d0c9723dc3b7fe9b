package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/howeyc/gopass"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/absfs/keystore"
)

// ErrNotFound is returned when a lookup has no match. It is reported through
// the exit status only.
var ErrNotFound = errors.New("not found")

const (
	envFile     = "KEYSTORE_FILE"
	envPassword = "KEYSTORE_PASSWORD"
)

// options carries the persistent flags and the collaborators commands share
type options struct {
	file      string
	password  string
	algorithm string
	verbose   bool

	logger *logrus.Logger

	// readPassword prompts on the terminal when no password was given
	readPassword func(prompt io.Writer) ([]byte, error)
}

func promptPassword(w io.Writer) ([]byte, error) {
	fmt.Fprint(w, "Password: ")
	return gopass.GetPasswd()
}

// Execute runs the CLI with the process arguments
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	return newRootCommand(&options{readPassword: promptPassword})
}

func newRootCommand(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "keystore",
		Short:         "Manage an OpenSSL-compatible encrypted credential file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			o.logger = logrus.New()
			o.logger.SetOutput(cmd.ErrOrStderr())
			o.logger.SetLevel(logrus.WarnLevel)
			if o.verbose {
				o.logger.SetLevel(logrus.DebugLevel)
			}

			if o.file == "" {
				o.file = os.Getenv(envFile)
			}
			if o.file == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return errors.Wrap(err, "cannot locate home directory")
				}
				o.file = filepath.Join(dir, ".keystore", "credentials.enc")
			}

			if _, err := keystore.ParseAlgorithm(o.algorithm); err != nil {
				return err
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&o.file, "file", "", "store file (default $"+envFile+" or ~/.keystore/credentials.enc)")
	root.PersistentFlags().StringVarP(&o.password, "password", "p", "", "store password (default $"+envPassword+" or prompt)")
	root.PersistentFlags().StringVarP(&o.algorithm, "algorithm", "a", keystore.DefaultAlgorithm.String(), "cipher: aes-256-cbc, aes-192-cbc, bf-cbc, rc4")
	root.PersistentFlags().BoolVar(&o.verbose, "verbose", false, "log every store operation")

	root.AddCommand(
		getCmd(o),
		setCmd(o),
		replaceCmd(o),
		findCmd(o),
		deleteCmd(o),
		listCmd(o),
		algorithmsCmd(),
		encryptCmd(o),
		decryptCmd(o),
	)
	return root
}

// resolvePassword returns the flag, the environment or a prompted password,
// in that order
func (o *options) resolvePassword(cmd *cobra.Command) (string, error) {
	if o.password != "" {
		return o.password, nil
	}
	if pw := os.Getenv(envPassword); pw != "" {
		return pw, nil
	}
	pw, err := o.readPassword(cmd.ErrOrStderr())
	if err != nil {
		return "", errors.Wrap(err, "cannot read password")
	}
	return string(pw), nil
}

// openStore opens the configured store. The caller closes it.
func (o *options) openStore(cmd *cobra.Command) (*keystore.Store, error) {
	password, err := o.resolvePassword(cmd)
	if err != nil {
		return nil, err
	}
	store, err := keystore.New(keystore.NewOSFS(), &keystore.Config{
		Path:      o.file,
		Password:  password,
		Algorithm: o.algorithm,
		Logger:    o.logger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "cannot open store")
	}
	return store, nil
}

// withStore runs fn against an open store and closes it afterwards
func (o *options) withStore(cmd *cobra.Command, fn func(*keystore.Store) error) error {
	store, err := o.openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
