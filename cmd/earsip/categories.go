// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"earsip/internal/models"
	"earsip/internal/state"
)

func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect the category tree",
	}

	var root string
	tree := &cobra.Command{
		Use:   "tree",
		Short: "Print the category tree with document counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			printTree(cmd.OutOrStdout(), rt.app.CategoryTree(models.StringPtr(root)))
			return nil
		},
	}
	tree.Flags().StringVar(&root, "root", "", "Only print the subtree below this category id")

	cmd.AddCommand(tree)
	return cmd
}

// printTree writes one line per node, indented by depth.
func printTree(w io.Writer, nodes []state.TreeNode) {
	if len(nodes) == 0 {
		fmt.Fprintln(w, "(no categories)")
		return
	}
	for _, n := range nodes {
		fmt.Fprintf(w, "%s%s (%d)  [%s]\n", strings.Repeat("  ", n.Depth), n.Name, n.Documents, n.ID)
	}
}
