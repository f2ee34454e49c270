package main

import (
	"flag"
	"fmt"
	"os"

	modelir "github.com/modelir/modelir"
	"github.com/modelir/modelir/ir"
	"github.com/modelir/modelir/modelfile"
	"github.com/modelir/modelir/schema"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "compile":
		compileCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "modelirc\n\nUsage:\n  modelirc compile -f models.yaml [-o out.json]\n\nCompiles a modelfile document into the schema IR consumed by the\nvalidation/serialization engine.")
}

func compileCmd(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	var in, out string
	fs.StringVar(&in, "f", "", "modelfile (YAML) to compile")
	fs.StringVar(&out, "o", "", "output file (defaults to stdout)")
	_ = fs.Parse(args)
	if in == "" {
		fs.Usage()
		os.Exit(2)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	warn := modelir.NewWarnings(logger)

	data, err := os.ReadFile(in)
	if err != nil {
		fatal(err)
	}
	file, err := modelfile.Parse(data)
	if err != nil {
		fatal(err)
	}
	decls, err := file.Declarations(warn)
	if err != nil {
		fatal(err)
	}

	reg := schema.NewRegistry()
	var compiled []*schema.Compiled

	// First pass: forward references between models in the same file leave
	// schemas Incomplete.
	for _, decl := range decls {
		c, err := schema.Compile(decl, nil,
			schema.WithRegistry(reg),
			schema.WithWarnings(warn),
		)
		if err != nil {
			fatal(fmt.Errorf("compile %s: %w", decl.Name, err))
		}
		compiled = append(compiled, c)
	}

	// Second pass: every model is registered now, so rebuild resolves the
	// remaining names.
	for _, c := range compiled {
		if c.State() == schema.Complete {
			continue
		}
		if err := c.Rebuild(reg); err != nil {
			fatal(fmt.Errorf("rebuild %s: %w", c.Name(), err))
		}
	}

	doc, err := reg.Document()
	if err != nil {
		fatal(err)
	}
	encoded, err := ir.EncodeDocument(doc)
	if err != nil {
		fatal(err)
	}

	if out == "" {
		fmt.Println(string(encoded))
		return
	}
	if err := os.WriteFile(out, append(encoded, '\n'), 0o644); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "modelirc:", err)
	os.Exit(1)
}
