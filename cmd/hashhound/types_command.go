package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"hashhound/internal/api"
)

// newTypesCommand exposes the hash type catalog.
func newTypesCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the hash types hashhound can identify",
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := catalogTypes(ctx)
			if err != nil {
				return err
			}
			if jsonFlag {
				return writeJSON(cmd, api.HashTypeListResponse{Types: types})
			}

			rows := make([][]string, 0, len(types))
			for _, hashType := range types {
				rows = append(rows, []string{
					hashType.Name,
					hashType.Rarity,
					strconv.Itoa(hashType.FamilySize),
					hashType.Description,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Rarity", "Family", "Description"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the catalog as JSON")
	cmd.AddCommand(newTypesShowCommand(ctx))

	return cmd
}

func newTypesShowCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show the full definition of one hash type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := catalogTypes(ctx)
			if err != nil {
				return err
			}

			wanted := strings.TrimSpace(args[0])
			for _, hashType := range types {
				if !strings.EqualFold(hashType.Name, wanted) {
					continue
				}
				if jsonFlag {
					return writeJSON(cmd, hashType)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Name:        %s\n", hashType.Name)
				fmt.Fprintf(out, "Rarity:      %s\n", hashType.Rarity)
				fmt.Fprintf(out, "Family size: %d\n", hashType.FamilySize)
				fmt.Fprintf(out, "Pattern:     %s\n", hashType.Pattern)
				if hashType.Description != "" {
					fmt.Fprintf(out, "Description: %s\n", hashType.Description)
				}
				return nil
			}
			return fmt.Errorf("unknown hash type %q; run `hashhound types` for the catalog", wanted)
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the definition as JSON")

	return cmd
}

func catalogTypes(ctx *commandContext) ([]api.HashType, error) {
	cfg := ctx.configValue()
	if cfg == nil {
		return nil, errors.New("configuration unavailable")
	}
	return api.FromRegistry(cfg.BuildRegistry()), nil
}
