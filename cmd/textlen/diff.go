package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"textlen/internal/edit"
	"textlen/internal/editor"
	"textlen/internal/length"
	"textlen/internal/report"
)

func newDiffCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [flags] FROM TO",
		Short: "Distance between two editor positions",
		Long: `Diff converts two 1-based editor positions (line:col) to lengths and
reports their order and the non-negative distance from FROM to TO. With
--file the distance is also measured on the text between them.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, a, args)
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().String("file", "", "measure the text between FROM and TO in this file")
	return cmd
}

type diffPayload struct {
	From     editor.Position `json:"from"`
	To       editor.Position `json:"to"`
	Order    string          `json:"order"`
	Distance length.Length   `json:"distance"`
	Reach    editor.Position `json:"reach"`
	Measured *length.Length  `json:"measured,omitempty"`
	Range    editor.Range    `json:"range"`
	Object   length.Object   `json:"object"`
	File     string          `json:"file,omitempty"`
}

func orderName(c int) string {
	switch {
	case c < 0:
		return "before"
	case c > 0:
		return "after"
	default:
		return "equal"
	}
}

func computeDiff(fromArg, toArg, file string) (diffPayload, error) {
	fromPos, err := editor.ParsePosition(fromArg)
	if err != nil {
		return diffPayload{}, err
	}
	toPos, err := editor.ParsePosition(toArg)
	if err != nil {
		return diffPayload{}, err
	}
	from, to, err := length.FromRange(editor.Range{Start: fromPos, End: toPos})
	if err != nil {
		return diffPayload{}, err
	}

	dist := length.DiffNonNegative(from, to)
	p := diffPayload{
		From:     fromPos,
		To:       toPos,
		Order:    orderName(length.Compare(from, to)),
		Distance: dist,
		Reach:    length.ToPosition(length.Add(from, dist)),
		Range:    length.ToRange(from, length.Max(from, to)),
		Object:   length.ObjectDiffNonNegative(from.ToObject(), to.ToObject()),
		File:     file,
	}
	if file == "" {
		return p, nil
	}

	// #nosec G304 -- path is provided by the user
	data, err := os.ReadFile(file)
	if err != nil {
		return diffPayload{}, err
	}
	text := string(data)
	start, err := edit.OffsetOf(text, length.Min(from, to))
	if err != nil {
		return diffPayload{}, fmt.Errorf("%s: %w", file, err)
	}
	end, err := edit.OffsetOf(text, length.Max(from, to))
	if err != nil {
		return diffPayload{}, fmt.Errorf("%s: %w", file, err)
	}
	measured := length.OfString(text[start:end])
	p.Measured = &measured
	return p, nil
}

func runDiff(cmd *cobra.Command, a *app, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	file, err := cmd.Flags().GetString("file")
	if err != nil {
		return fmt.Errorf("failed to get file flag: %w", err)
	}

	p, err := computeDiff(args[0], args[1], file)
	if err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case "json":
		return report.WriteJSON(cmd.OutOrStdout(), p)
	case "pretty":
		useColor, err := a.useColor(cmd, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		fields := []report.Field{
			{Key: "from", Value: p.From.String()},
			{Key: "to", Value: p.To.String()},
			{Key: "order", Value: p.Order},
			{Key: "distance", Value: p.Distance.String()},
			{Key: "reach", Value: p.Reach.String()},
		}
		if p.Measured != nil {
			fields = append(fields, report.Field{Key: "measured", Value: p.Measured.String()})
		}
		return report.Fields(cmd.OutOrStdout(), "diff", fields, report.Options{Color: useColor})
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
