// Test program to demonstrate rubric-based phase classification.
// With arguments it scores each one as free text; without arguments it
// scores the structured keywords artifact from the working directory,
// falling back to built-in sample lines when no artifact exists.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/participax/civiclens/internal/model"
	"github.com/participax/civiclens/internal/phase"
	"github.com/participax/civiclens/internal/pipeline"
)

func main() {
	fmt.Println("=== Phase Rubric Classification Test ===")
	fmt.Println()

	classifier := phase.NewClassifier(phase.DefaultRubric())

	if len(os.Args) > 1 {
		scoreTexts(classifier, os.Args[1:])
		return
	}

	artifact := model.DefaultConfig().Artifacts.Structured
	if _, err := os.Stat(artifact); err == nil {
		if err := scoreArtifact(classifier, artifact); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("No %s here; scoring the built-in sample lines.\n\n", artifact)
	scoreTexts(classifier, []string{
		"Im Interview wünschte sich eine Bürgerin mehr Bänke am Marktplatz.",
		"Das Problem wurde in der Analyse zusammen mit den Bedarfen priorisiert.",
		"The new prototype adds a map widget with a filter.",
		"Der Rollout der Stelen beginnt im Mai, danach startet der Betrieb.",
		"Die Bank am Flussufer liegt morgens im Schatten.",
	})
}

// scoreTexts prints the full breakdown for each line. Free text gets no
// role boosts, so the result is the pure term-ratio comparison.
func scoreTexts(classifier *phase.Classifier, texts []string) {
	for _, text := range texts {
		fmt.Printf("Text: %s\n", text)
		fmt.Println(strings.Repeat("-", 60))
		printBreakdown(classifier.ScoreText(text))
		fmt.Println()
	}

	fmt.Println("=== Test Complete ===")
	fmt.Println()
	fmt.Println("Note: free text gets no role boosts.")
	fmt.Println("Entries scored during 'civiclens phase' also receive citizen,")
	fmt.Println("designer and planner boosts on top of the term ratios.")
}

// scoreArtifact scores every structured entry with the role boosts, the
// same way 'civiclens phase' does, and prints a per-entry table.
func scoreArtifact(classifier *phase.Classifier, path string) error {
	entries, err := pipeline.ReadEntries(path)
	if err != nil {
		return err
	}

	fmt.Printf("Scoring %d entries from %s\n\n", len(entries), path)

	counts := make(map[model.Phase]int)
	for _, entry := range entries {
		breakdown := classifier.Score(entry)
		counts[breakdown.Phase]++

		fmt.Printf("Keyword: %s  (source: %s)\n", entry.Keyword, entry.Source)
		fmt.Println(strings.Repeat("-", 60))
		printBreakdown(breakdown)
		fmt.Println()
	}

	fmt.Println("=== Test Complete ===")
	fmt.Println()
	fmt.Println("Phase counts:")
	for _, ph := range model.PhaseOrder {
		fmt.Printf("  %-8s %d\n", ph, counts[ph])
	}
	return nil
}

func printBreakdown(breakdown phase.Breakdown) {
	for _, ps := range breakdown.Scores {
		marker := " "
		if ps.Phase == breakdown.Phase {
			marker = ">"
		}
		fmt.Printf("  %s %-8s total=%.3f  ratio=%.3f  boost=%.1f", marker, ps.Phase, ps.Total, ps.Ratio, ps.Boost)
		if len(ps.Matched) > 0 {
			fmt.Printf("  matched: %s", strings.Join(ps.Matched, ", "))
		}
		fmt.Println()
	}
	fmt.Printf("  Phase: %s\n", breakdown.Phase)
}
