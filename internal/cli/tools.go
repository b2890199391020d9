package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/itsuki/garden/pkg/errors"
	"github.com/itsuki/garden/pkg/tools"
)

// toolsCommand groups the study tool subcommands.
func (c *CLI) toolsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Run the study tools from the terminal",
	}
	cmd.AddCommand(c.toolsListCommand())
	cmd.AddCommand(c.toolsRunCommand())
	return cmd
}

func (c *CLI) toolsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, info := range tools.All() {
				printKeyValue(info.Name, fmt.Sprintf("%s (%s, icon %s)", info.Title, info.ComponentID, info.Icon))
			}
			return nil
		},
	}
}

func (c *CLI) toolsRunCommand() *cobra.Command {
	var (
		csvPath string
		lines   []string
	)

	cmd := &cobra.Command{
		Use:   "run [tool] [args...]",
		Short: "Run a tool by name or component id",
		Long: `Run a tool by name or component id.

  garden tools run flashcards 学生 食べる --csv deck.csv
  garden tools run reading --line 1 --line 3

The tools are demos: they wait for the configured latency and answer from
fixtures.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := tools.Lookup(args[0])
			if err != nil {
				return err
			}
			switch id {
			case tools.Flashcards:
				return c.runFlashcards(cmd.Context(), args[1:], csvPath)
			default:
				return c.runReading(cmd.Context(), lines)
			}
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "write the generated deck as CSV (flashcards)")
	cmd.Flags().StringSliceVar(&lines, "line", nil, "script lines to record (reading; default: all)")

	return cmd
}

func (c *CLI) runFlashcards(ctx context.Context, words []string, csvPath string) error {
	if len(words) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "flashcards: at least one word is required")
	}
	gen := tools.NewGenerator(
		tools.WithGenerateDelay(c.Config.Tools.GenerateDelay.Duration),
		tools.WithGeneratorLogger(c.Logger.WithPrefix("flashcards")),
	)

	for _, word := range words {
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Parsing %s...", word))
		spinner.Start()
		card, err := gen.Generate(ctx, word)
		if err != nil {
			spinner.StopWithError("Generation failed")
			return err
		}
		spinner.Stop()

		printSuccess("%s  %s", card.Word, StyleDim.Render(card.Reading+" · "+card.Romaji))
		printDetail("%s", card.Translation)
		if card.WordType != "" {
			printDetail("%s", card.WordType)
		}
	}

	if csvPath == "" {
		printNewline()
		printNextStep("Export", appName+" tools run flashcards "+strings.Join(words, " ")+" --csv deck.csv")
		return nil
	}
	data, err := gen.CSV()
	if err != nil {
		return err
	}
	if err := os.WriteFile(csvPath, data, 0o644); err != nil {
		return fmt.Errorf("write csv %s: %w", csvPath, err)
	}
	printSuccess("Exported %d cards", len(gen.Cards()))
	printFile(csvPath)
	return nil
}

func (c *CLI) runReading(ctx context.Context, lineIDs []string) error {
	t := c.Config.Tools
	coach := tools.NewCoach(
		tools.WithDelays(t.ScriptDelay.Duration, t.RecordDelay.Duration, t.EvaluateDelay.Duration),
		tools.WithCoachLogger(c.Logger.WithPrefix("reading")),
	)

	spinner := newSpinnerWithContext(ctx, "Analyzing script...")
	spinner.Start()
	script, err := coach.ProcessScript(ctx)
	if err != nil {
		spinner.StopWithError("Script processing failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("%d lines loaded", len(script)))

	if len(lineIDs) == 0 {
		for _, l := range script {
			lineIDs = append(lineIDs, l.ID)
		}
	}

	for _, id := range lineIDs {
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Recording line %s...", id))
		spinner.Start()
		stop := watchCoach(spinner, coach)
		fb, err := coach.Record(ctx, id)
		stop()
		if err != nil {
			spinner.StopWithError(fmt.Sprintf("Line %s failed", id))
			return err
		}
		spinner.StopWithSuccess(fmt.Sprintf("Line %s rated %s", id, fb.Rating))
		for _, row := range strings.Split(strings.TrimSpace(fb.Feedback), "\n") {
			printDetail("%s", row)
		}
	}
	return nil
}

// watchCoach mirrors the coach's phase in the spinner until stop is called.
func watchCoach(s *Spinner, coach *tools.Coach) (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if _, evaluating := coach.State(); evaluating != "" {
					s.SetMessage(fmt.Sprintf("Evaluating line %s...", evaluating))
				}
			}
		}
	}()
	return func() { close(done) }
}
