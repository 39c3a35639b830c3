package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/participax/civiclens/internal/validate"
)

var verifyJSON bool

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the pipeline artifacts against their contracts",
	Long: `Read the three pipeline artifacts and check that they are consistent:
summary counts match the results, sentences agree between stages, the
day field is gone after phasing and every phase name is valid.

Missing artifacts and cosmetic problems are reported as warnings;
contract violations are errors and make the command exit non-zero.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "print the report as JSON")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	report := validate.NewValidator(cfg.Artifacts).Validate()

	if verifyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	} else {
		for _, issue := range report.Issues {
			fmt.Println(issue)
		}
		fmt.Printf("Checked %d artifacts: %d errors, %d warnings\n",
			report.Checked, report.Errors(), report.Warnings())
	}

	if !report.OK() {
		return fmt.Errorf("artifact validation failed with %d errors", report.Errors())
	}
	return nil
}
