package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/NKID00/sbfnj/compiler"
)

func main() {
	app := &cli.Command{
		Name:        "sbfnj",
		Description: "sbfnj compiles, optimizes and runs brainfuck programs",
		Action:      run,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("o1", false, "enable optimizations"),
			cli.NewFlag("o2", false, "more optimizations"),
			cli.NewFlag("text", false, "print ir and exit"),
			cli.NewFlag("llvm", false, "emit llvm ir and call clang"),

			cli.FlagfileFlag,
			cli.HelpFlag,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func run(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	if len(c.Args) != 1 {
		return errors.New("one input file expected")
	}

	name := c.Args[0]

	cfg := compiler.Config{
		Text:   c.Bool("text"),
		Input:  os.Stdin,
		Output: os.Stdout,
	}

	switch {
	case c.Bool("o2"):
		cfg.Opt = 2
	case c.Bool("o1"):
		cfg.Opt = 1
	}

	if !c.Bool("llvm") {
		return compiler.RunFile(ctx, name, cfg)
	}

	cfg.Opt = 2
	cfg.Emit = true

	if cfg.Text {
		cfg.Text = false

		return compiler.RunFile(ctx, name, cfg)
	}

	return build(ctx, name, cfg)
}

// build emits llvm ir next to the source, compiles it with clang and
// runs the produced executable.
func build(ctx context.Context, name string, cfg compiler.Config) (err error) {
	llName := name + ".ll"
	exeName := name + ".out"

	f, err := os.Create(llName)
	if err != nil {
		return errors.Wrap(err, "create %v", llName)
	}

	cfg.Output = f

	err = compiler.RunFile(ctx, name, cfg)
	if e := f.Close(); err == nil && e != nil {
		err = errors.Wrap(e, "close %v", llName)
	}
	if err != nil {
		return err
	}

	cmd := exec.Command("clang", "-O2", "-o", exeName, llName)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err = cmd.Run()
	if err != nil {
		return errors.Wrap(err, "external toolchain: clang")
	}

	exe := exeName
	if !filepath.IsAbs(exe) {
		exe = "." + string(filepath.Separator) + exe
	}

	cmd = exec.Command(exe)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err = cmd.Run()
	if err != nil {
		return errors.Wrap(err, "run %v", exeName)
	}

	return nil
}
