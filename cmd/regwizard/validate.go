package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yigit/regwizard/internal/app/models"
	"github.com/yigit/regwizard/internal/app/validators"
	"github.com/yigit/regwizard/internal/app/wizard"
)

var errRecordInvalid = errors.New("record is invalid")

func validateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a registration record from a YAML or JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open record: %w", err)
				}
				defer f.Close()
				in = f
			}
			return validateRecord(in, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Record file (YAML or JSON), - for stdin")
	return cmd
}

// validateRecord prints one line per field and a password check, and
// returns errRecordInvalid when the record would not be accepted.
func validateRecord(in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read record: %w", err)
	}

	var record models.RegistrationSubmission
	if err := yaml.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("parse record: %w", err)
	}

	res := validators.Validate(record)
	for _, f := range models.AllFields {
		fr := res[f]
		if fr.Valid {
			fmt.Fprintf(out, "%-16s ok\n", f)
			continue
		}
		fmt.Fprintf(out, "%-16s invalid: %s\n", f, fr.Message)
	}

	if !res.Valid() {
		return errRecordInvalid
	}
	if !record.PasswordsMatch() {
		fmt.Fprintln(out, wizard.MismatchTitle)
		return errRecordInvalid
	}
	fmt.Fprintln(out, "record is valid")
	return nil
}
