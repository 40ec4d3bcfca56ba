package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/trivia-maze/validate"
)

func runValidateCommand(ctx context.Context, cmd *cli.Command) error {
	configDir := cmd.String("config-dir")
	if !runValidate(os.Stdout, configDir, cmd.Args().Slice()) {
		return fmt.Errorf("validation failed")
	}
	return nil
}

// runValidate validates the given files, or every config in configDir when
// files is empty. Bank files (.yaml, .yml) are checked on their own. It
// prints a report and returns whether everything was valid.
func runValidate(out io.Writer, configDir string, files []string) bool {
	bankDir := filepath.Dir(filepath.Clean(configDir))

	var results []validate.ValidationResult
	if len(files) == 0 {
		all, err := validate.ValidateDir(configDir, bankDir)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return false
		}
		results = all
	}
	for _, file := range files {
		switch strings.ToLower(filepath.Ext(file)) {
		case ".yaml", ".yml":
			results = append(results, validate.ValidateBank(file))
		default:
			results = append(results, validate.ValidateConfig(file, bankDir))
		}
	}

	allValid := true
	for _, result := range results {
		fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(out, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(out, "  "+info)
			}
		} else {
			fmt.Fprintln(out, "❌ INVALID")
			allValid = false
			for _, problem := range result.Problems() {
				fmt.Fprintln(out, "  ❌ "+problem)
			}
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(out, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(out, "❌ Some configurations have errors")
	}
	return allValid
}
