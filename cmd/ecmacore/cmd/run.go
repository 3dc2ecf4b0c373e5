package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/engine"
)

var (
	evalExpr   string
	dumpAST    bool
	trace      bool
	configPath string
)

type formattable interface {
	Format(useColor bool) string
}

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run an ecmacore script file or expression",
	Long: `Execute a JavaScript-subset program from a file or inline expression.

Examples:
  # Run a script file
  ecmacore run script.js

  # Evaluate an inline expression
  ecmacore run --eval "console.log(1 + 2)"

  # Run with AST dump (for debugging)
  ecmacore run --dump-ast script.js`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline source instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST (for debugging)")
	runCmd.Flags().BoolVar(&trace, "trace", false, "trace execution (for debugging)")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML file of engine limits (loop iteration cap, timer resolution)")
}

func runScript(_ *cobra.Command, args []string) error {
	var src, file string
	switch {
	case evalExpr != "":
		src, file = evalExpr, "<eval>"
	case len(args) == 1:
		file = args[0]
		decoded, err := engine.LoadFile(file)
		if err != nil {
			return err
		}
		src = decoded
	default:
		return fmt.Errorf("either provide a file path or use --eval for inline source")
	}

	if trace {
		fmt.Fprintf(os.Stderr, "[trace] running %s\n", file)
	}

	limits, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	opt := engine.Options{Out: os.Stdout, Limits: limits}
	if dumpAST {
		opt.DumpAST = func(prog *ast.Program) {
			fmt.Println("AST:")
			for _, stmt := range prog.Body {
				fmt.Printf("%#v\n", stmt)
			}
			fmt.Println()
		}
	}
	eng := engine.New(file, src, opt)
	defer eng.Close()

	if err := eng.Run(file, src); err != nil {
		if fe, ok := err.(formattable); ok {
			fmt.Fprintln(os.Stderr, fe.Format(true))
		} else {
			fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		}
		return fmt.Errorf("execution failed")
	}
	return nil
}
