// Package cli holds the cobra commands behind safeharbor-scan
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"safeharbor/internal/core/crisis"
	"safeharbor/internal/core/version"
	"safeharbor/internal/platform/config"
	perr "safeharbor/internal/platform/errors"
	"safeharbor/internal/platform/logger"
	"safeharbor/internal/services/analyze/domain"
	"safeharbor/internal/services/analyze/service"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// Output formats
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatTable = "table"
)

// ExitError carries a process exit code out of RunE
type ExitError struct {
	Code  int
	Level crisis.Level
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("crisis level %s reached", e.Level)
}

type scanFlags struct {
	file       string
	lexicon    string
	format     string
	maxLength  int
	noKeywords bool
	noPatterns bool
	failLevel  string
}

// NewScanCommand builds the root command. in is read when no text
// argument or --file is given
func NewScanCommand(in io.Reader) *cobra.Command {
	var f scanFlags
	cmd := &cobra.Command{
		Use:   "safeharbor-scan [text...]",
		Short: "Scan text for crisis risk language",
		Long: "Scan text for self-harm and suicide risk language and print the crisis level,\n" +
			"indicators and recommendations. Text comes from arguments, --file, or stdin.",
		Version:       version.Info("safeharbor-scan").String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, in, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.file, "file", "f", "", "read text from file (- for stdin)")
	fl.StringVar(&f.lexicon, "lexicon", "", "lexicon pack override (.json, .yaml); defaults to CORE_CRISIS_LEXICON_PATH")
	fl.StringVarP(&f.format, "format", "o", FormatText, "output format: text, table or json")
	fl.IntVar(&f.maxLength, "max-length", crisis.DefaultMaxAnalysisLength, "characters analyzed before truncation")
	fl.BoolVar(&f.noKeywords, "no-keywords", false, "disable keyword detection")
	fl.BoolVar(&f.noPatterns, "no-patterns", false, "disable pattern matching")
	fl.StringVar(&f.failLevel, "fail-level", "", "exit with status 2 when the level is at or above this one")
	return cmd
}

func runScan(cmd *cobra.Command, args []string, in io.Reader, f scanFlags) error {
	switch f.format {
	case FormatText, FormatJSON, FormatTable:
	default:
		return perr.InvalidArgf("unknown format %q", f.format)
	}
	var fail int
	if f.failLevel != "" {
		fail = crisis.Level(f.failLevel).Rank()
		if fail < 0 {
			return perr.InvalidArgf("unknown level %q", f.failLevel)
		}
	}

	text, err := readInput(args, f.file, in)
	if err != nil {
		return err
	}

	opts := service.FromConfig(config.New())
	if f.lexicon != "" {
		opts.LexiconPath = f.lexicon
	}
	svc, err := service.New(opts, service.WithLogger(logger.Named("scan")))
	if err != nil {
		return err
	}

	res, err := svc.Analyze(cmd.Context(), text, requestConfig(cmd, f))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch f.format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(domain.FromResult(res)); err != nil {
			return err
		}
	case FormatTable:
		writeTable(out, res)
	default:
		writeText(out, res)
	}

	if f.failLevel != "" && res.Level.Rank() >= fail {
		return &ExitError{Code: 2, Level: res.Level}
	}
	return nil
}

// requestConfig only sets what the user asked for so env defaults apply otherwise
func requestConfig(cmd *cobra.Command, f scanFlags) *crisis.PartialConfig {
	var pc crisis.PartialConfig
	if cmd.Flags().Changed("max-length") {
		n := f.maxLength
		pc.MaxAnalysisLength = &n
	}
	if f.noKeywords {
		off := false
		pc.EnableKeywordDetection = &off
	}
	if f.noPatterns {
		off := false
		pc.EnablePatternMatching = &off
	}
	return &pc
}

func readInput(args []string, file string, in io.Reader) (string, error) {
	if len(args) > 0 {
		if file != "" {
			return "", perr.InvalidArgf("pass text arguments or --file, not both")
		}
		return strings.Join(args, " "), nil
	}
	var (
		data []byte
		err  error
	)
	switch file {
	case "", "-":
		if in == nil {
			return "", perr.InvalidArgf("no input")
		}
		data, err = io.ReadAll(in)
	default:
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeInvalidArgument, "read input")
	}
	return string(data), nil
}

func writeText(w io.Writer, r crisis.Result) {
	fmt.Fprintf(w, "level:       %s\n", r.Level)
	fmt.Fprintf(w, "score:       %.2f\n", r.Metadata.SeverityScore)
	fmt.Fprintf(w, "confidence:  %.2f\n", r.Confidence)
	fmt.Fprintf(w, "analyzed:    %d characters\n", r.Metadata.TextLength)

	fmt.Fprintln(w, "indicators:")
	if len(r.Indicators) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, in := range r.Indicators {
		switch in.Kind {
		case crisis.KindKeyword:
			fmt.Fprintf(w, "  - [keyword] %s (severity %d, confidence %.2f): %s\n",
				in.Details.Category, in.Severity, in.Confidence, strings.Join(in.Details.Matches, ", "))
		default:
			fmt.Fprintf(w, "  - [%s] %s/%s (severity %d, confidence %.2f)\n",
				in.Kind, in.Details.Family, in.Details.PatternID, in.Severity, in.Confidence)
		}
	}

	fmt.Fprintln(w, "recommendations:")
	for _, line := range r.Recommendations {
		fmt.Fprintf(w, "  - %s\n", line)
	}
}

// indicator table column widths
const (
	sourceColumnWidth  = 36
	matchesColumnWidth = 48
)

func writeTable(w io.Writer, r crisis.Result) {
	fmt.Fprintf(w, "Crisis level %s (score %.2f, confidence %.2f)\n",
		r.Level, r.Metadata.SeverityScore, r.Confidence)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: sourceColumnWidth},
		{Number: 6, WidthMax: matchesColumnWidth},
	})
	t.AppendHeader(table.Row{"#", "Type", "Source", "Severity", "Confidence", "Matches"})
	for i, in := range r.Indicators {
		source := in.Details.Category
		if in.Kind != crisis.KindKeyword {
			source = in.Details.Family + "/" + in.Details.PatternID
		}
		t.AppendRow(table.Row{
			i + 1,
			in.Kind,
			source,
			in.Severity,
			fmt.Sprintf("%.2f", in.Confidence),
			strings.Join(in.Details.Matches, ", "),
		})
	}
	t.AppendFooter(table.Row{"", "", "Total", len(r.Indicators), "", ""})
	t.Render()

	fmt.Fprintln(w, "Recommendations:")
	for i, line := range r.Recommendations {
		fmt.Fprintf(w, "%d. %s\n", i+1, line)
	}
}

// Execute runs the scan command with ctx and returns the process exit code
func Execute(ctx context.Context, in io.Reader, out, errOut io.Writer, args []string) int {
	cmd := NewScanCommand(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if ee, ok := err.(*ExitError); ok {
		return ee.Code
	}
	fmt.Fprintln(errOut, "error:", err)
	return 1
}
