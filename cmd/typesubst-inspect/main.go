// Command typesubst-inspect loads an OpenAPI document and a YAML fixture of
// runtime types, runs the substitution engine over each declared handler
// type, and prints the decisions.
//
// Usage:
//
//	typesubst-inspect -doc api.yaml -types types.yaml [-yaml] [-log-level debug]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	goyaml "github.com/itchyny/go-yaml"
	"github.com/itchyny/timefmt-go"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/speakeasy-api/typesubst"
	"github.com/speakeasy-api/typesubst/pkg/oasmodel"
	"github.com/speakeasy-api/typesubst/substitute"
)

// fixture is the YAML shape of the runtime type definitions.
type fixture struct {
	Types    map[string]map[string]string `yaml:"types"`
	Declared []string                     `yaml:"declared"`
}

type decision struct {
	Declared string `yaml:"declared"`
	Outcome  string `yaml:"outcome"`
	Result   string `yaml:"result"`
}

type report struct {
	Document  string     `yaml:"document"`
	Version   string     `yaml:"version"`
	Generated string     `yaml:"generated"`
	Decisions []decision `yaml:"decisions"`
}

func main() {
	docPath := flag.String("doc", "", "path to the OpenAPI document")
	typesPath := flag.String("types", "", "path to the runtime types fixture")
	yamlOut := flag.Bool("yaml", false, "emit the report as YAML")
	logLevel := flag.String("log-level", "warn", "log level: error, warn, info, debug")
	flag.Parse()

	if *docPath == "" || *typesPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*docPath, *typesPath, *yamlOut, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "typesubst-inspect: %v\n", err)
		os.Exit(1)
	}
}

func run(docPath, typesPath string, yamlOut bool, logLevel string) error {
	docFile, err := os.Open(docPath)
	if err != nil {
		return err
	}
	defer docFile.Close()

	model, err := oasmodel.Load(context.Background(), docFile)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(typesPath)
	if err != nil {
		return err
	}
	var fx fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return fmt.Errorf("failed to parse types fixture: %w", err)
	}

	reg, err := buildRegistry(fx)
	if err != nil {
		return err
	}

	svc := substitute.Service{
		Model:       model,
		Assemblies:  []*typesubst.Registry{reg},
		Synthesizer: substitute.NewDescriptorSynthesizer(),
	}
	opts := substitute.DefaultOptions()
	opts.LogLevel = logLevel

	rep := report{
		Document:  docPath,
		Version:   model.Version(),
		Generated: timefmt.Format(time.Now(), "%Y-%m-%d %H:%M:%S"),
	}
	for _, expr := range fx.Declared {
		declared, err := parseTypeExpr(expr, reg)
		if err != nil {
			return err
		}
		resolved, err := substitute.Substitute(context.Background(), declared, svc, opts)
		if err != nil {
			return err
		}
		rep.Decisions = append(rep.Decisions, decision{
			Declared: expr,
			Outcome:  outcome(declared, resolved),
			Result:   resolved.String(),
		})
	}

	if yamlOut {
		out, err := goyaml.Marshal(rep)
		if err != nil {
			return err
		}
		os.Stdout.Write(out)
		return nil
	}
	printTable(rep)
	return nil
}

// buildRegistry creates descriptors for the fixture types in two passes so
// that properties can reference each other and themselves.
func buildRegistry(fx fixture) (*typesubst.Registry, error) {
	reg := typesubst.NewRegistry("fixture")

	names := make([]string, 0, len(fx.Types))
	for name := range fx.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		reg.Register(typesubst.NewStruct(name))
	}
	for _, name := range names {
		t, _ := reg.Lookup(name)
		props := fx.Types[name]
		propNames := make([]string, 0, len(props))
		for pn := range props {
			propNames = append(propNames, pn)
		}
		sort.Strings(propNames)
		for _, pn := range propNames {
			pt, err := parseTypeExpr(props[pn], reg)
			if err != nil {
				return nil, fmt.Errorf("type %s, property %s: %w", name, pn, err)
			}
			t.Properties = append(t.Properties, typesubst.Property{Name: pn, Type: pt})
		}
	}
	return reg, nil
}

// parseTypeExpr parses expressions like "Widget", "Enumerable[Widget]" or
// "Delta[Enumerable[Widget]]" against the fixture registry.
func parseTypeExpr(expr string, reg *typesubst.Registry) (*typesubst.Type, error) {
	expr = strings.TrimSpace(expr)
	if base, rest, ok := strings.Cut(expr, "["); ok {
		if !strings.HasSuffix(rest, "]") {
			return nil, fmt.Errorf("malformed type expression %q", expr)
		}
		inner, err := parseTypeExpr(rest[:len(rest)-1], reg)
		if err != nil {
			return nil, err
		}
		switch base {
		case "Enumerable":
			return typesubst.EnumerableOf(inner), nil
		case "Value":
			return typesubst.ValueOf(inner), nil
		case "Delta":
			return typesubst.DeltaOf(inner), nil
		default:
			return nil, fmt.Errorf("unknown shell %q in %q", base, expr)
		}
	}

	switch expr {
	case "bool":
		return typesubst.Bool, nil
	case "int":
		return typesubst.Int, nil
	case "int64":
		return typesubst.Int64, nil
	case "float64":
		return typesubst.Float64, nil
	case "string":
		return typesubst.String, nil
	case "time":
		return typesubst.Time, nil
	case "void":
		return typesubst.Void, nil
	}
	if t, ok := reg.Lookup(expr); ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown type %q", expr)
}

func outcome(declared, resolved *typesubst.Type) string {
	if resolved.Equal(declared) {
		return "reused"
	}
	res := substitute.Classify(declared)
	if res.Shells.IsDelta() && resolved.Equal(res.CoreType) {
		return "collapsed"
	}
	return "synthesized"
}

func printTable(rep report) {
	color := isatty.IsTerminal(os.Stdout.Fd())

	headers := []string{"DECLARED", "OUTCOME", "RESULT"}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, d := range rep.Decisions {
		cells := []string{d.Declared, d.Outcome, d.Result}
		for i, c := range cells {
			if w := runewidth.StringWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	row := func(cells ...string) {
		for i, c := range cells {
			fmt.Print(runewidth.FillRight(c, widths[i]+2))
		}
		fmt.Println()
	}
	row(headers...)
	for _, d := range rep.Decisions {
		out := d.Outcome
		if color {
			out = colorize(d.Outcome, widths[1])
			fmt.Print(runewidth.FillRight(d.Declared, widths[0]+2))
			fmt.Print(out)
			fmt.Println(d.Result)
			continue
		}
		row(d.Declared, d.Outcome, d.Result)
	}
	fmt.Printf("\n%s (version %s), generated %s\n", rep.Document, rep.Version, rep.Generated)
}

func colorize(outcome string, width int) string {
	var code string
	switch outcome {
	case "reused":
		code = "32" // green
	case "collapsed":
		code = "33" // yellow
	default:
		code = "36" // cyan
	}
	padded := runewidth.FillRight(outcome, width+2)
	return "\x1b[" + code + "m" + outcome + "\x1b[0m" + padded[len(outcome):]
}
