package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	payrollinspect "payroll-inspect"
)

const (
	defaultInput  = "/mnt/c/Users/bhara/Downloads/Payroll_June_25.xlsx"
	defaultOutput = "/home/bhara/payroll/excel_analysis.json"
)

type config struct {
	input    string
	output   string
	toonPath string
	survey   bool
	patterns bool
	verbose  bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.input, "input", defaultInput, "path to the payroll workbook")
	flag.StringVar(&cfg.output, "output", defaultOutput, "path of the JSON analysis file")
	flag.StringVar(&cfg.toonPath, "toon", "", "also write the analysis in TOON notation to this path")
	flag.BoolVar(&cfg.survey, "survey", false, "print a markdown survey of every sheet")
	flag.BoolVar(&cfg.patterns, "patterns", false, "print COUNTIF and daily rate formula patterns")
	flag.BoolVar(&cfg.verbose, "v", false, "debug logging on stderr")
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	// Failures are reported on stdout and the process still exits normally.
	report(os.Stdout, guard(func() error { return run(context.Background(), cfg, log, os.Stdout) }))
}

// report prints err followed by a stack trace. Recovered panics carry the
// stack captured at the panic site.
func report(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "Error analyzing Excel file: %v\n", err)
	var pe *panicError
	if errors.As(err, &pe) {
		w.Write(pe.stack)
		return
	}
	w.Write(debug.Stack())
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r, stack: debug.Stack()}
		}
	}()
	return fn()
}

func run(ctx context.Context, cfg config, log *logrus.Logger, out io.Writer) error {
	log.WithField("input", cfg.input).Debug("opening workbook")

	analysis, err := payrollinspect.AnalyzeFile(ctx, cfg.input,
		payrollinspect.WithLogger(log),
		payrollinspect.WithProgressCallback(func(p payrollinspect.ProgressInfo) {
			log.WithFields(logrus.Fields{
				"phase":   p.Phase,
				"percent": p.Percent,
			}).Debug("progress")
		}),
	)
	if err != nil {
		return err
	}

	if err := payrollinspect.WriteReport(out, analysis); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	if cfg.patterns {
		if err := payrollinspect.WritePatterns(out, payrollinspect.ScanPatterns(analysis)); err != nil {
			return fmt.Errorf("patterns: %w", err)
		}
	}

	if err := payrollinspect.WriteJSON(cfg.output, analysis); err != nil {
		return err
	}
	log.WithField("output", cfg.output).Info("analysis saved")

	if cfg.toonPath != "" {
		if err := payrollinspect.WriteTOON(cfg.toonPath, analysis); err != nil {
			return err
		}
		log.WithField("output", cfg.toonPath).Info("TOON analysis saved")
	}

	if cfg.survey {
		s, err := payrollinspect.NewSurveyor(cfg.input)
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := io.WriteString(out, "\n"+s.Survey().Markdown()); err != nil {
			return fmt.Errorf("survey: %w", err)
		}
	}

	return nil
}
