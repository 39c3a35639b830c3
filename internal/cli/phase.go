package cli

import (
	"github.com/spf13/cobra"

	"github.com/participax/civiclens/internal/pipeline"
)

var (
	phaseIn     string
	phaseOut    string
	phaseRubric string
)

// phaseCmd represents the phase command
var phaseCmd = &cobra.Command{
	Use:   "phase",
	Short: "Assign a design lifecycle phase to every entry",
	Long: `Score every structured entry against the Double Diamond rubric and tag
it with the best matching phase: Discover, Define, Develop or Deliver.

Scoring is term-ratio based with role boosts, so it is deterministic
and needs no network access. The tagged entries are written to
structured_keywords_phased.json and a phase distribution is printed.

A custom rubric can be supplied as a YAML file via --rubric.`,
	RunE: runPhase,
}

func init() {
	phaseCmd.Flags().StringVar(&phaseIn, "input", "", "path of the structured entries artifact to read")
	phaseCmd.Flags().StringVar(&phaseOut, "output", "", "path for the phased entries artifact")
	phaseCmd.Flags().StringVar(&phaseRubric, "rubric", "", "YAML file with a custom phase rubric")

	rootCmd.AddCommand(phaseCmd)
}

func runPhase(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Artifacts.Structured = phaseIn
	}
	if flags.Changed("output") {
		cfg.Artifacts.Phased = phaseOut
	}
	if flags.Changed("rubric") {
		cfg.RubricFile = phaseRubric
	}

	p, err := pipeline.NewPipeline(cfg, verbose, nil, nil)
	if err != nil {
		return err
	}

	_, _, err = p.AssignPhases()
	return err
}
