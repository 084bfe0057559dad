package main

import (
	"fmt"

	"github.com/nao1215/pwdfinder/internal/oracle"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <password> <hash>",
		Short: "Hash a password with the salt of an existing hash",
		Long: `Check hashes the password with the salt carried by the given hash and
prints the oracle output. The password is correct when the printed value
equals the hash.

Examples:
  # Verify a hash produced by 'pwdfinder crypt'
  pwdfinder check password <hash>

  # Verify a SHA3 hash
  pwdfinder check --oracle sha3 password <sha3-hash>`,
		Args: exactArgs(2),
		RunE: runCheckCmd,
	}

	cmd.Flags().String("oracle", oracle.DefaultName,
		fmt.Sprintf("Hash function %v", oracle.Names()))

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	name, err := cmd.Flags().GetString("oracle")
	if err != nil {
		return err
	}

	o, err := oracle.Get(name)
	if err != nil {
		return err
	}

	hash, err := o.Hash(args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Result:[%s]\n", hash)
	return nil
}
