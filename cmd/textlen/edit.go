package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"textlen/internal/edit"
	"textlen/internal/editor"
	"textlen/internal/length"
	"textlen/internal/report"
)

func newEditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [flags] FILE",
		Short: "Apply edits and report which line anchors survive",
		Long: `Edit applies one or more changes to FILE, each written as
START-END=TEXT with 1-based line:col positions (TEXT may use Go escapes such
as \n). Changes refer to the original text and must not overlap. The report
lists the anchors dropped and kept and where rescanning must start.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, a, args[0])
		},
	}
	cmd.Flags().StringArray("change", nil, "change as START-END=TEXT (repeatable)")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("print", false, "print the edited text after the report")
	cmd.Flags().Bool("write", false, "write the edited text back to FILE")
	return cmd
}

// parseChange parses START-END=TEXT.
func parseChange(s string) (edit.Change, error) {
	rng, text, ok := strings.Cut(s, "=")
	if !ok {
		return edit.Change{}, fmt.Errorf("invalid change %q (expected START-END=TEXT)", s)
	}
	startStr, endStr, ok := strings.Cut(rng, "-")
	if !ok {
		return edit.Change{}, fmt.Errorf("invalid range in %q (expected line:col-line:col)", s)
	}
	start, err := editor.ParsePosition(startStr)
	if err != nil {
		return edit.Change{}, err
	}
	end, err := editor.ParsePosition(endStr)
	if err != nil {
		return edit.Change{}, err
	}
	startLen, endLen, err := length.FromRange(editor.Range{Start: start, End: end})
	if err != nil {
		return edit.Change{}, err
	}
	if unquoted, err := strconv.Unquote(`"` + text + `"`); err == nil {
		text = unquoted
	}
	return edit.Change{Start: startLen, End: endLen, Text: text}, nil
}

type editPayload struct {
	File     string            `json:"file"`
	Version  int               `json:"version"`
	Changes  int               `json:"changes"`
	Dropped  int               `json:"dropped"`
	Kept     int               `json:"kept"`
	Length   length.Length     `json:"length"`
	End      editor.Position   `json:"end"`
	Rescan   []editor.Position `json:"rescan"`
	Reusable length.Length     `json:"reusable"`
	Text     string            `json:"text,omitempty"`
}

func runEdit(cmd *cobra.Command, a *app, path string) error {
	rawChanges, err := cmd.Flags().GetStringArray("change")
	if err != nil {
		return fmt.Errorf("failed to get change flag: %w", err)
	}
	if len(rawChanges) == 0 {
		return fmt.Errorf("no changes given; use --change START-END=TEXT")
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	printText, _ := cmd.Flags().GetBool("print")
	write, _ := cmd.Flags().GetBool("write")

	changes := make([]edit.Change, 0, len(rawChanges))
	for _, raw := range rawChanges {
		c, err := parseChange(raw)
		if err != nil {
			return err
		}
		changes = append(changes, c)
	}

	// #nosec G304 -- path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	done := a.timer.Track("edit")
	doc := edit.NewDocument(string(data))
	res, err := doc.Apply(cmd.Context(), changes)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	done(strconv.Itoa(len(changes)) + " changes")

	if write {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(doc.Text()), info.Mode().Perm()); err != nil {
			return err
		}
	}

	p := editPayload{
		File:     path,
		Version:  res.Version,
		Changes:  len(changes),
		Dropped:  res.Dropped,
		Kept:     res.Kept,
		Length:   res.Length,
		End:      length.ToPosition(res.Length),
		Rescan:   make([]editor.Position, len(res.Rescan)),
		Reusable: res.Reusable,
	}
	for i, off := range res.Rescan {
		p.Rescan[i] = length.ToPosition(off)
	}
	if printText {
		p.Text = doc.Text()
	}

	switch strings.ToLower(format) {
	case "json":
		return report.WriteJSON(cmd.OutOrStdout(), p)
	case "pretty":
		useColor, err := a.useColor(cmd, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		rescan := make([]string, len(p.Rescan))
		for i, pos := range p.Rescan {
			rescan[i] = pos.String()
		}
		fields := []report.Field{
			{Key: "changes", Value: strconv.Itoa(p.Changes)},
			{Key: "anchors dropped", Value: strconv.Itoa(p.Dropped)},
			{Key: "anchors kept", Value: strconv.Itoa(p.Kept)},
			{Key: "rescan from", Value: strings.Join(rescan, ", ")},
			{Key: "reusable prefix", Value: p.Reusable.String()},
			{Key: "length", Value: p.Length.String()},
		}
		if err := report.Fields(cmd.OutOrStdout(), "edit "+path, fields, report.Options{Color: useColor}); err != nil {
			return err
		}
		if printText {
			_, err := fmt.Fprint(cmd.OutOrStdout(), p.Text)
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
