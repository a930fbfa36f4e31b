package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/flashorca/vault-audit/idl"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [account ...]",
	Short: "Print computed on-chain sizes for the program's account kinds",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := parseConfig()
		if err != nil {
			return err
		}
		doc, err := loadDocument(conf)
		if err != nil {
			return err
		}

		names := args
		if len(names) == 0 {
			for _, td := range doc.Accounts {
				names = append(names, td.Name)
			}
			sort.Strings(names)
		}

		schemas, err := idl.NewRegistry(doc).Records(names...)
		if err != nil {
			return err
		}
		for _, name := range names {
			schema := schemas[name]
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s data=%-6d total=%d\n",
				schema.Name, schema.DataSize, schema.TotalSize)
		}
		return nil
	},
}
