package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/examduty/dutybook-backend/internal/model"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newCreateFacultyCmd(a *app) *cobra.Command {
	var req model.RegisterRequest

	cmd := &cobra.Command{
		Use:   "create-faculty",
		Short: "Register a faculty account, prompting for anything not given as a flag",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "=== Create Faculty Account ===")
			for _, f := range []struct {
				label string
				dst   *string
			}{
				{"Faculty ID", &req.FacultyID},
				{"Name", &req.Name},
				{"Email", &req.Email},
				{"Phone", &req.Phone},
				{"Designation", &req.Designation},
				{"Branch", &req.Branch},
			} {
				if *f.dst != "" {
					continue
				}
				v, err := prompt(in, out, f.label)
				if err != nil {
					return err
				}
				*f.dst = v
			}

			password, err := readPassword(in, out, "Password")
			if err != nil {
				return err
			}
			confirm, err := readPassword(in, out, "Confirm Password")
			if err != nil {
				return err
			}
			req.Password, req.ConfirmPassword = password, confirm

			if _, err := a.faculty.Register(cmd.Context(), req, nil); err != nil {
				return err
			}
			fmt.Fprintf(out, "Faculty %s created\n", req.FacultyID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.FacultyID, "id", "", "faculty ID")
	cmd.Flags().StringVar(&req.Name, "name", "", "full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&req.Designation, "designation", "", "Assistant Professor, Associate Professor, Non-Teaching Staff or HOD")
	cmd.Flags().StringVar(&req.Branch, "branch", "", "department")
	return cmd
}

func newAddDateCmd(a *app) *cobra.Command {
	var (
		date string
		year int
	)

	cmd := &cobra.Command{
		Use:   "add-date",
		Short: "Add a bookable date to the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.catalog.AddDate(cmd.Context(), date, year)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (year %d) as #%d\n", d.Date, d.Year, d.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date label, e.g. 2025-03-10")
	cmd.Flags().IntVar(&year, "year", 0, "student year the date applies to")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func newResetDatesCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset-dates",
		Short: "Delete every catalog date and clear all booking lists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			if err := a.catalog.ResetAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Dates reset successfully!")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func newRollupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rollup",
		Short: "Print the dashboard summary as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rollup, err := a.faculty.Rollup(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rollup)
		},
	}
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "Enter %s: ", label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads without echo when stdin is a terminal, otherwise from in.
func readPassword(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "Enter %s: ", label)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return string(b), nil
}
