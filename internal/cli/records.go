package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/futig/resomate/internal/entity"
	"github.com/spf13/cobra"
)

func saveCmd(s *session) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "save <kind> [file]",
		Short: "Save a JSON payload to the local cache and push it when online",
		Long: `Save writes the payload locally first. When the server is reachable the record is pushed
right away; otherwise it stays pending until the next sync. Reads stdin when no file is given.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			src := cmd.InOrStdin()
			if len(args) == 2 {
				f, err := os.Open(args[1])
				if err != nil {
					return err
				}
				defer f.Close()
				src = f
			}

			payload, err := readPayload(src)
			if err != nil {
				return err
			}

			record, err := s.agent.Coordinator.SaveAndPush(cmd.Context(), kind, id, payload, s.agent.Remote)
			if err != nil {
				return fmt.Errorf("failed to save: %w", err)
			}

			printf(cmd.OutOrStdout(), "%s Saved %s %s (%s)\n", okMark, record.Kind, record.ID, syncedLabel(record.Synced))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Record id to overwrite (default: a new id)")

	return cmd
}

func listCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list <kind>",
		Short: "List cached records of a kind, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			records, err := s.agent.Coordinator.List(cmd.Context(), kind)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				printf(cmd.OutOrStdout(), "No %s records.\n", kind)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tMODIFIED\tSTATE\tREMOTE ID")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					r.ID,
					payloadTitle(r.Payload),
					r.LastModified.Local().Format(time.DateTime),
					syncedLabel(r.Synced),
					r.RemoteID,
				)
			}
			return w.Flush()
		},
	}
}

func showCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show <kind> <id>",
		Short: "Print a cached record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			record, err := s.agent.Coordinator.Get(cmd.Context(), kind, args[1])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(record)
		},
	}
}

func deleteCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete a record from the local cache",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			if err := s.agent.Coordinator.Delete(cmd.Context(), kind, args[1]); err != nil {
				return err
			}

			printf(cmd.OutOrStdout(), "%s Deleted %s %s\n", okMark, kind, args[1])
			return nil
		},
	}
}

func clearCmd(s *session) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every record from the local cache",
		Long:  "Clear empties the local cache. Pending records that were never pushed are lost.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the cache without --yes")
			}

			_, total, err := s.agent.Coordinator.PendingCount(cmd.Context())
			if err != nil {
				return err
			}
			if total > 0 {
				printf(cmd.ErrOrStderr(), "%s dropping %d pending record(s)\n", warnMark, total)
			}

			if err := s.agent.Coordinator.ClearAll(cmd.Context()); err != nil {
				return err
			}

			printf(cmd.OutOrStdout(), "%s Local cache cleared\n", okMark)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm")

	return cmd
}

func parseKind(s string) (entity.EntityKind, error) {
	kind := entity.EntityKind(s)
	if err := kind.Validate(); err != nil {
		return "", fmt.Errorf("%w\nValid kinds: resolution, template, note, speech", err)
	}
	return kind, nil
}

func readPayload(r io.Reader) (json.RawMessage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: payload is not valid JSON", entity.ErrInvalidPayload)
	}
	return data, nil
}

func payloadTitle(payload json.RawMessage) string {
	var p struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(payload, &p); err != nil || p.Title == "" {
		return "-"
	}
	return p.Title
}
