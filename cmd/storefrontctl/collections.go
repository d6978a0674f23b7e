package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"storefront-state-api/internal/collection"
	"storefront-state-api/internal/storage"
)

var collectionKeys = []string{
	collection.KeyCart,
	collection.KeyWishlist,
	collection.KeyCompare,
	collection.KeyRecentlyViewed,
}

func collectionsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"col"},
		Short:   "Persisted collection commands",
	}

	cmd.AddCommand(
		collectionsListCmd(e),
		collectionsShowCmd(e),
		collectionsClearCmd(e),
	)
	return cmd
}

func collectionsListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show entry counts for every collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, color.CyanString("Collections (%s storage)", e.cfg.Storage.Type))

			for _, key := range collectionKeys {
				raw, err := e.storage.Get(cmd.Context(), key)
				switch {
				case errors.Is(err, storage.ErrNotFound):
					fmt.Fprintf(out, "  %-16s %s\n", key, color.HiBlackString("empty"))
				case err != nil:
					fmt.Fprintf(out, "  %-16s %s\n", key, color.RedString("error: %v", err))
				default:
					var entries []json.RawMessage
					if err := json.Unmarshal(raw, &entries); err != nil {
						fmt.Fprintf(out, "  %-16s %s\n", key, color.YellowString("malformed, loads as empty"))
						continue
					}
					fmt.Fprintf(out, "  %-16s %s\n", key, color.GreenString("%d entries", len(entries)))
				}
			}
			return nil
		},
	}
}

func collectionsShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <collection>",
		Short: "Print a collection as stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := collectionKey(args[0])
			if err != nil {
				return err
			}

			raw, err := e.storage.Get(cmd.Context(), key)
			if errors.Is(err, storage.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "[]")
				return nil
			}
			if err != nil {
				return err
			}

			var pretty bytes.Buffer
			if err := json.Indent(&pretty, raw, "", "  "); err != nil {
				return fmt.Errorf("%s holds malformed data: %v", key, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
			return nil
		},
	}
}

func collectionsClearCmd(e *env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear <collection>",
		Short: "Delete a persisted collection",
		Long: `Delete a persisted collection. A running server keeps its in-memory copy
and writes it back on the next mutation; stop it first for a permanent reset.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := collectionKey(args[0])
			if err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("refusing to clear %s without --yes", key)
			}

			if err := e.storage.Delete(cmd.Context(), key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s cleared\n", color.GreenString("✓"), key)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	return cmd
}

func collectionKey(name string) (string, error) {
	for _, key := range collectionKeys {
		if key == name {
			return key, nil
		}
	}
	return "", fmt.Errorf("unknown collection %q (use cart, wishlist, compare, recently_viewed)", name)
}
