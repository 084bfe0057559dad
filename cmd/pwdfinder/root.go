package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nao1215/pwdfinder/internal/finder"
	"github.com/nao1215/pwdfinder/internal/wordlist"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	exitOK          = 0
	exitArguments   = 1
	exitDictionary  = 2
	exitResultStore = 3
	exitHashFormat  = 4
	exitFailure     = 5
)

// NewRootCmd creates the root command. Run with two arguments it searches
// a dictionary; the subcommands cover the single-word tools and history.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pwdfinder <dictionary> <target-hash>",
		Short: "Recover a password from its hash with a dictionary",
		Long: `pwdfinder searches a dictionary file for the word whose hash equals the
target hash. The file is split into one partition per worker by byte offset;
each worker hashes the words it owns and all workers stop as soon as one of
them finds the password.

The result is written to a plain-text result file:

  Password is: <word>
  Found on rank: <rank>
  Searching time is: <seconds>

Words of 40 or more characters, or with characters other than ASCII letters,
digits, space and punctuation, are skipped with a diagnostic on stderr.

Exit codes:
  0  search completed (password found or not)
  1  wrong number of arguments
  2  dictionary cannot be opened
  3  result file cannot be created
  4  target hash has the wrong length
  5  any other failure

Examples:
  # Search with one worker per CPU
  pwdfinder words.txt abJnggxhB/yWI

  # Use 16 workers and write the result elsewhere
  pwdfinder -w 16 -r out/result words.txt abJnggxhB/yWI

  # Coordinate cancellation over Redis
  pwdfinder --bus redis --redis-addr 127.0.0.1:6379 words.txt abJnggxhB/yWI`,
		Version:       getVersion(),
		Args:          exactArgs(2),
		RunE:          runSearchCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	addSearchFlags(cmd)

	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewCryptCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// exactArgs is cobra.ExactArgs with an error that maps to exitArguments.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%w: accepts %d arg(s), received %d\nUsage: %s",
				finder.ErrArgumentCount, n, len(args), cmd.UseLine())
		}
		return nil
	}
}

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, finder.ErrArgumentCount):
		return exitArguments
	case errors.Is(err, finder.ErrDictionaryOpen),
		// crypt rejects its word with the same code.
		errors.Is(err, wordlist.ErrWordTooLong),
		errors.Is(err, wordlist.ErrWordCharset):
		return exitDictionary
	case errors.Is(err, finder.ErrResultStoreOpen):
		return exitResultStore
	case errors.Is(err, finder.ErrHashFormat):
		return exitHashFormat
	default:
		return exitFailure
	}
}

// Execute runs the root command and exits with the mapped code.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
