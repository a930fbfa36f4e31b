// vault-audit cross-checks the reward vault program's custody records
// against the SPL token accounts holding the funds.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/flashorca/vault-audit/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, cmd.ErrFindings) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
