package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"patient-records/internal/client"
	"patient-records/internal/models"

	"github.com/spf13/cobra"
)

func apiClient(cmd *cobra.Command) *client.Client {
	server, _ := cmd.Flags().GetString("server")
	return client.New(server)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func clientCmds() []*cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print all stored records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := apiClient(cmd).List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Print one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := apiClient(cmd).Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), r)
		},
	}

	sortCmd := &cobra.Command{
		Use:   "sort",
		Short: "Print records ordered by height, weight or bmi",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			by, _ := cmd.Flags().GetString("by")
			order, _ := cmd.Flags().GetString("order")
			records, err := apiClient(cmd).Sort(cmd.Context(), by, order)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), records)
		},
	}
	sortCmd.Flags().String("by", "bmi", "Field to sort on (height, weight, bmi)")
	sortCmd.Flags().String("order", "asc", "Sort order (asc, desc)")

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a record from a JSON file (- for stdin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			data, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			p, err := models.ParsePatient(data)
			if err != nil {
				return err
			}
			if err := apiClient(cmd).Create(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (bmi %.2f, %s)\n", p.ID, p.BMI(), p.Verdict())
			return nil
		},
	}
	createCmd.Flags().StringP("file", "f", "-", "JSON file holding the patient")

	editCmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Update fields of a record, e.g. --set weight=72 --set city=null",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, _ := cmd.Flags().GetStringArray("set")
			if len(sets) == 0 {
				return fmt.Errorf("at least one --set field=value is required")
			}
			patch, err := patchFromAssignments(sets)
			if err != nil {
				return err
			}
			if err := apiClient(cmd).Update(cmd.Context(), args[0], patch); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s\n", args[0], strings.Join(patch.Fields(), ", "))
			return nil
		},
	}
	editCmd.Flags().StringArray("set", nil, "field=value assignment; value null clears the field")

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient(cmd).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print summary statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := apiClient(cmd).Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), sum)
		},
	}

	return []*cobra.Command{listCmd, getCmd, sortCmd, createCmd, editCmd, deleteCmd, statsCmd}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// patchFromAssignments builds the patch JSON from field=value pairs and
// runs it through the same parser the server uses.
func patchFromAssignments(sets []string) (models.PatientUpdate, error) {
	raw := map[string]json.RawMessage{}
	for _, s := range sets {
		field, value, ok := strings.Cut(s, "=")
		if !ok || field == "" {
			return models.PatientUpdate{}, fmt.Errorf("invalid assignment %q, want field=value", s)
		}
		raw[field] = literal(value)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return models.PatientUpdate{}, err
	}
	return models.ParsePatientUpdate(data)
}

// literal keeps null and numbers as JSON literals and quotes everything else.
func literal(value string) json.RawMessage {
	if value == "null" {
		return json.RawMessage("null")
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return json.RawMessage(value)
	}
	b, _ := json.Marshal(value)
	return b
}
