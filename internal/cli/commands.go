package cli

import (
	"bytes"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/syssam/rowkit"
)

// NewFindCommand creates the find command.
func NewFindCommand(root *RootOptions) *cobra.Command {
	var (
		limit int
		one   bool
	)
	cmd := &cobra.Command{
		Use:   "find <table> [descriptor]",
		Short: "Select rows matching a find descriptor",
		Long: `Select rows matching a find descriptor of the form
{"filter": {...}, "view": [...], "options": {"order": {...}, "limit": n, "skip": n}}.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := tableArg(args)
			if err != nil {
				return err
			}
			desc := map[string]any{}
			if len(args) == 2 {
				if err := decodeJSON(args[1], &desc); err != nil {
					return err
				}
			}
			q, err := rowkit.ParseFind(desc)
			if err != nil {
				return err
			}
			if limit > 0 {
				q.Limit = limit
			}
			s, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			if one {
				row, err := s.client.FindOne(cmd.Context(), table, q)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), row)
			}
			rows, err := s.client.Find(cmd.Context(), table, q)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of rows (overrides the descriptor)")
	cmd.Flags().BoolVar(&one, "one", false, "return the first matching row or fail")
	return cmd
}

// NewCountCommand creates the count command.
func NewCountCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count <table> [filter]",
		Short: "Count rows matching a filter descriptor",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := tableArg(args)
			if err != nil {
				return err
			}
			desc := map[string]any{}
			if len(args) == 2 {
				if err := decodeJSON(args[1], &desc); err != nil {
					return err
				}
			}
			f, err := rowkit.ParseFilter(desc)
			if err != nil {
				return err
			}
			s, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			n, err := s.client.Count(cmd.Context(), table, f)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]int64{"count": n})
		},
	}
}

// NewInsertCommand creates the insert command.
func NewInsertCommand(root *RootOptions) *cobra.Command {
	var genID bool
	cmd := &cobra.Command{
		Use:   "insert <table> <record|records>",
		Short: "Insert a record or an array of records",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := tableArg(args)
			if err != nil {
				return err
			}
			var payload any
			if err := decodeJSON(args[1], &payload); err != nil {
				return err
			}
			records, err := rowkit.ParseRecords(payload)
			if err != nil {
				return err
			}
			var opts []rowkit.Option
			if genID {
				opts = append(opts, rowkit.WithIDGenerator(rowkit.UUIDGenerator))
			}
			s, err := root.open(cmd, opts...)
			if err != nil {
				return err
			}
			defer s.Close()
			if _, batch := payload.([]any); !batch {
				res, err := s.client.Insert(cmd.Context(), table, records[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res)
			}
			results, err := s.client.InsertMany(cmd.Context(), table, records)
			if werr := writeJSON(cmd.OutOrStdout(), results); werr != nil && err == nil {
				err = werr
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&genID, "gen-id", false, "fill a missing id column with a random UUID")
	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <table> <changes> <identifier>",
		Short: "Update the rows matched by an identifier",
		Long: `Update the rows matched by an identifier. Changes map columns to values
or to {"inc": n} / {"dec": n}. The identifier is a JSON scalar id or an
object of column values.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := tableArg(args)
			if err != nil {
				return err
			}
			var changes map[string]any
			if err := decodeJSON(args[1], &changes); err != nil {
				return err
			}
			var ident any
			if err := decodeJSON(args[2], &ident); err != nil {
				return err
			}
			c, err := rowkit.ParseChanges(changes)
			if err != nil {
				return err
			}
			where, err := rowkit.ParseIdentifier(ident)
			if err != nil {
				return err
			}
			s, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			res, err := s.client.Update(cmd.Context(), table, c, where)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(root *RootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "delete <table> <target>",
		Short: "Delete the rows matched by an id or a filter descriptor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := tableArg(args)
			if err != nil {
				return err
			}
			var target any
			if err := decodeJSON(args[1], &target); err != nil {
				return err
			}
			where, err := rowkit.ParseTarget(target)
			if err != nil {
				return err
			}
			s, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			res, err := s.client.Delete(cmd.Context(), table, where, limit)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of deleted rows (mysql only)")
	return cmd
}

// decodeJSON decodes s into v, keeping numbers as json.Number.
func decodeJSON(s string, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return usageErrorf("invalid JSON argument: %w", err)
	}
	if dec.More() {
		return usageErrorf("invalid JSON argument: trailing data")
	}
	return nil
}
