package main

import (
	"fmt"

	"github.com/nao1215/pwdfinder/internal/oracle"
	"github.com/nao1215/pwdfinder/internal/wordlist"
	"github.com/spf13/cobra"
)

// defaultSalt is the salt crypt uses unless --salt is given.
const defaultSalt = "any./Sa1t/"

// NewCryptCmd creates the crypt command.
func NewCryptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crypt <password>",
		Short: "Hash a password to produce a search target",
		Long: `Crypt hashes a password with a fixed salt and prints the result, ready to
be used as the target hash of a search.

The password must be shorter than 40 characters and may contain only ASCII
letters, digits, space and punctuation, the same rule the search applies
to dictionary words.

Examples:
  # Produce a DES crypt target
  pwdfinder crypt password

  # Produce a SHA3 target with a custom salt
  pwdfinder crypt --oracle sha3 --salt mysalt12 password`,
		Args: exactArgs(1),
		RunE: runCryptCmd,
	}

	cmd.Flags().String("oracle", oracle.DefaultName,
		fmt.Sprintf("Hash function %v", oracle.Names()))
	cmd.Flags().String("salt", defaultSalt,
		"Salt passed to the hash function")

	return cmd
}

// runCryptCmd executes the crypt command.
func runCryptCmd(cmd *cobra.Command, args []string) error {
	name, err := cmd.Flags().GetString("oracle")
	if err != nil {
		return err
	}
	salt, err := cmd.Flags().GetString("salt")
	if err != nil {
		return err
	}

	word := args[0]
	if v := wordlist.Check(word); v != wordlist.OK {
		return fmt.Errorf("%w: %q: length must be below %d and characters limited to letters, digits and %q",
			v.Err(), word, wordlist.MaxLength, wordlist.Punctuation)
	}

	o, err := oracle.Get(name)
	if err != nil {
		return err
	}

	hash, err := o.Hash(word, salt)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Result:[%s]\n", hash)
	return nil
}
