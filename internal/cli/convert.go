package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/youngspe/mintyml"
	"github.com/youngspe/mintyml/internal/config"
	"github.com/youngspe/mintyml/internal/fsio"
	"github.com/youngspe/mintyml/internal/logging"
	"github.com/youngspe/mintyml/internal/span"
	"github.com/youngspe/mintyml/internal/ui/pretty"
)

// ErrUsage is returned for invalid flag combinations; the CLI maps it
// to exit code 2.
var ErrUsage = errors.New("usage error")

// ErrConversionFailed is returned when one or more inputs failed to
// convert; the CLI maps it to exit code 1.
var ErrConversionFailed = errors.New("one or more files failed to convert")

// sourceExt is the file extension mintyml looks for under --dir.
const sourceExt = ".mty"

type convertFlags struct {
	stdin       bool
	dir         string
	recurse     int
	stdout      bool
	out         string
	xml         bool
	pretty      bool
	indent      int
	completePage bool
	fragment     bool
	specialTags  []string
	metadata         bool
	metadataElements bool
	failFast         bool
	detectLanguage   bool
	lang             string
	jobs             int
}

func newConvertCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Compile MinTyML source to HTML or XHTML",
		Long: `Compile one or more MinTyML sources to HTML (or XHTML, with --xml).

Reads from stdin, a directory of .mty files, or the given files, and
writes the result to stdout, a single output file, or alongside each
input.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, flags)
		},
	}

	addConvertFlags(cmd, flags)
	return cmd
}

func addConvertFlags(cmd *cobra.Command, f *convertFlags) {
	cmd.Flags().BoolVar(&f.stdin, "stdin", false, "read source from stdin")
	cmd.Flags().StringVar(&f.dir, "dir", "", "convert every .mty file under this directory")
	cmd.Flags().IntVar(&f.recurse, "recurse", 0, "recurse into subdirectories of --dir, optionally to a max depth")
	cmd.Flags().Lookup("recurse").NoOptDefVal = "-1"

	cmd.Flags().BoolVar(&f.stdout, "stdout", false, "write output to stdout")
	cmd.Flags().StringVar(&f.out, "out", "", "write output to this file (single input) or directory (multiple inputs)")

	cmd.Flags().BoolVar(&f.xml, "xml", false, "emit well-formed XHTML instead of HTML")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "pretty-print output with indentation")
	cmd.Flags().IntVar(&f.indent, "indent", 0, "indent width in spaces (implies --pretty)")
	cmd.Flags().BoolVar(&f.completePage, "complete-page", false, "wrap output in a complete html/head/body document")
	cmd.Flags().Lookup("complete-page").NoOptDefVal = "true"
	cmd.Flags().BoolVar(&f.fragment, "fragment", false, "emit a bare fragment, overriding --complete-page")
	cmd.Flags().StringSliceVar(&f.specialTags, "special-tag", nil, "override a formatting-shorthand tag, kind=tag[,kind=tag...]")
	cmd.Flags().BoolVar(&f.metadata, "metadata", false, "emit mty:start/end position attributes")
	cmd.Flags().Lookup("metadata").NoOptDefVal = "true"
	cmd.Flags().BoolVar(&f.metadataElements, "metadata-elements", false, "wrap text/comments in mty:text/mty:comment elements")
	cmd.Flags().Lookup("metadata-elements").NoOptDefVal = "true"
	cmd.Flags().BoolVar(&f.failFast, "fail-fast", false, "abort on the first syntax error instead of recovering")
	cmd.Flags().BoolVar(&f.detectLanguage, "detect-language", false, "guess a language for bare fenced code blocks")
	cmd.Flags().StringVar(&f.lang, "lang", "", "set the root lang attribute on a complete page")
	cmd.Flags().IntVar(&f.jobs, "jobs", 0, "parallel workers when converting a directory or multiple files (0 = auto)")
}

func runConvert(cmd *cobra.Command, args []string, f *convertFlags) error {
	logger := logging.Default()

	if err := validateConvertFlags(cmd, f, args); err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	configPath, _ := cmd.Flags().GetString("config")
	fileCfg, err := config.Load(configPath, workDir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	cliCfg := convertFlagsToConfig(cmd, f)
	merged := fileCfg.Merge(cliCfg)

	opts := mintyml.New(configOptions(merged)...)

	colorMode, _ := cmd.Flags().GetString("color")
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.ErrOrStderr()))

	if f.stdin {
		return convertStdin(cmd, opts, styles)
	}

	inputs, err := discoverInputs(f, args)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	jobs := merged.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	failed := convertFiles(cmd.Context(), inputs, opts, f, styles, cmd.OutOrStdout(), cmd.ErrOrStderr(), jobs)

	logger.Debug("conversion finished",
		logging.FieldFilesProcessed, len(inputs),
		logging.FieldFilesFailed, failed,
	)

	fmt.Fprintln(cmd.ErrOrStderr(), styles.FormatSummary(len(inputs), failed))

	if failed > 0 {
		return ErrConversionFailed
	}
	return nil
}

func validateConvertFlags(cmd *cobra.Command, f *convertFlags, args []string) error {
	modes := 0
	if f.stdin {
		modes++
	}
	if f.dir != "" {
		modes++
	}
	if len(args) > 0 {
		modes++
	}
	if modes == 0 {
		return fmt.Errorf("%w: one of --stdin, --dir, or FILES is required", ErrUsage)
	}
	if modes > 1 {
		return fmt.Errorf("%w: --stdin, --dir, and FILES are mutually exclusive", ErrUsage)
	}
	if f.stdout && f.out != "" {
		return fmt.Errorf("%w: --stdout and --out are mutually exclusive", ErrUsage)
	}
	if cmd.Flags().Changed("complete-page") && cmd.Flags().Changed("fragment") {
		return fmt.Errorf("%w: --complete-page and --fragment are mutually exclusive", ErrUsage)
	}
	return nil
}

func convertFlagsToConfig(cmd *cobra.Command, f *convertFlags) *config.Config {
	cfg := &config.Config{}
	flagSet := cmd.Flags()

	if flagSet.Changed("xml") {
		cfg.XML = &f.xml
	}
	if flagSet.Changed("indent") {
		cfg.Indent = &f.indent
	} else if f.pretty {
		indent := 2
		cfg.Indent = &indent
	}
	completePage := f.completePage && !f.fragment
	if flagSet.Changed("complete-page") || flagSet.Changed("fragment") {
		cfg.CompletePage = &completePage
	}
	if flagSet.Changed("fail-fast") {
		cfg.FailFast = &f.failFast
	}
	if flagSet.Changed("metadata") {
		cfg.Metadata = &f.metadata
	}
	if flagSet.Changed("metadata-elements") {
		cfg.MetadataElements = &f.metadataElements
	}
	if flagSet.Changed("detect-language") {
		cfg.DetectLanguage = &f.detectLanguage
	}
	if flagSet.Changed("lang") {
		cfg.Lang = &f.lang
	}
	if len(f.specialTags) > 0 {
		cfg.SpecialTags = parseSpecialTags(f.specialTags)
	}
	if flagSet.Changed("jobs") {
		cfg.Jobs = f.jobs
	}
	return cfg
}

// parseSpecialTags parses "kind=tag" pairs; "kind=" (empty value)
// unwraps that special kind instead of overriding its tag.
func parseSpecialTags(pairs []string) map[string]*string {
	result := make(map[string]*string, len(pairs))
	for _, pair := range pairs {
		kind, tag, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		if tag == "" {
			result[kind] = nil
			continue
		}
		v := tag
		result[kind] = &v
	}
	return result
}

func configOptions(cfg *config.Config) []mintyml.Option {
	var opts []mintyml.Option
	if cfg.XML != nil {
		opts = append(opts, mintyml.WithXML(*cfg.XML))
	}
	if cfg.Indent != nil {
		opts = append(opts, mintyml.WithIndent(*cfg.Indent))
	}
	if cfg.CompletePage != nil {
		opts = append(opts, mintyml.WithCompletePage(*cfg.CompletePage))
	}
	if cfg.FailFast != nil {
		opts = append(opts, mintyml.WithFailFast(*cfg.FailFast))
	}
	if cfg.Metadata != nil {
		opts = append(opts, mintyml.WithMetadata(*cfg.Metadata))
	}
	if cfg.MetadataElements != nil {
		opts = append(opts, mintyml.WithMetadataElements(*cfg.MetadataElements))
	}
	if cfg.DetectLanguage != nil {
		opts = append(opts, mintyml.WithDetectLanguage(*cfg.DetectLanguage))
	}
	if cfg.Lang != nil {
		opts = append(opts, mintyml.WithLang(*cfg.Lang))
	}
	for kind, tag := range cfg.SpecialTags {
		opts = append(opts, mintyml.WithSpecialTag(kind, tag))
	}
	return opts
}

func convertStdin(cmd *cobra.Command, opts mintyml.Options, styles *pretty.Styles) error {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	output, err := mintyml.ConvertForgiving(string(data), opts)
	reportSyntaxErrors(cmd.ErrOrStderr(), styles, "<stdin>", string(data), err)
	if output == "" && err != nil {
		return ErrConversionFailed
	}

	if _, err := io.WriteString(cmd.OutOrStdout(), output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func discoverInputs(f *convertFlags, args []string) ([]string, error) {
	if f.dir != "" {
		return walkDir(f.dir, f.recurse)
	}
	return args, nil
}

func walkDir(root string, recurseDepth int) ([]string, error) {
	var files []string
	rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			depth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth
			if recurseDepth == 0 || (recurseDepth > 0 && depth > recurseDepth) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), sourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func convertFiles(ctx context.Context, inputs []string, opts mintyml.Options, f *convertFlags, styles *pretty.Styles, stdout, stderr io.Writer, jobs int) int {
	if ctx == nil {
		ctx = context.Background()
	}

	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	var failedCount int32
	var stdoutMu sync.Mutex

	for _, path := range inputs {
		path := path
		group.Go(func() error {
			if convertOneFile(ctx, path, opts, f, styles, stdout, stderr, &stdoutMu) != nil {
				atomic.AddInt32(&failedCount, 1)
			}
			return nil
		})
	}

	_ = group.Wait()
	return int(failedCount)
}

func convertOneFile(ctx context.Context, path string, opts mintyml.Options, f *convertFlags, styles *pretty.Styles, stdout, stderr io.Writer, stdoutMu *sync.Mutex) error {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", path, err)
		return err
	}

	output, convErr := mintyml.ConvertForgiving(string(data), opts)
	reportSyntaxErrors(stderr, styles, path, string(data), convErr)
	if output == "" && convErr != nil {
		return convErr
	}

	destPath := outputPathFor(path, f, opts.XML)
	if f.stdout || destPath == "" {
		stdoutMu.Lock()
		fmt.Fprint(stdout, output)
		stdoutMu.Unlock()
		return nil
	}
	if err := fsio.WriteAtomic(ctx, destPath, []byte(output), 0); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", path, err)
		return err
	}
	return nil
}

func outputPathFor(srcPath string, f *convertFlags, xml bool) string {
	ext := ".html"
	if xml {
		ext = ".xhtml"
	}
	base := strings.TrimSuffix(srcPath, filepath.Ext(srcPath)) + ext

	switch {
	case f.stdout:
		return ""
	case f.out == "":
		return base
	default:
		if info, err := os.Stat(f.out); err == nil && info.IsDir() {
			return filepath.Join(f.out, filepath.Base(base))
		}
		return f.out
	}
}

func reportSyntaxErrors(w io.Writer, styles *pretty.Styles, path, source string, err error) {
	if err == nil {
		return
	}
	convErr, ok := err.(*mintyml.Error)
	if !ok {
		fmt.Fprintf(w, "%s: %v\n", path, err)
		return
	}
	src := span.NewSource(source)
	for _, se := range convErr.SyntaxErrors {
		fmt.Fprint(w, styles.FormatSyntaxError(path, src, se))
	}
}
