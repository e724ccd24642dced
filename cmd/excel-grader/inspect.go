package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cotten321/Excel-Grader/pkg/grader"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var (
		outputPath string
		pretty     bool
	)
	cmd := &cobra.Command{
		Use:   "inspect [input.xlsx]",
		Short: "Print the document a workbook loads into, as JSON",
		Long: `Inspect loads a workbook exactly as grading does and prints the result
(cells, formulas, styles, names, layout) as JSON. Useful when writing checks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loadMode, err := grader.ParseMode(mode)
			if err != nil {
				return err
			}

			doc, err := grader.Load(args[0], grader.Options{Mode: loadMode})
			if err != nil {
				return fmt.Errorf("load failed: %w", err)
			}

			var data []byte
			if pretty {
				data, err = json.MarshalIndent(doc, "", "  ")
			} else {
				data, err = json.Marshal(doc)
			}
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, data, 0644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				return nil
			}
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}
