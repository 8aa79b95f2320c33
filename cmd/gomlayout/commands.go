package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gompdf/gomlayout/internal/config"
	"github.com/gompdf/gomlayout/internal/state"
	"github.com/gompdf/gomlayout/internal/template"
	"github.com/gompdf/gomlayout/pkg/api"
)

// create opens the destination, STDOUT when name is empty.
func create(name string) (io.WriteCloser, error) {
	if len(name) == 0 {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("unable to create destination file '%s': %w", name, err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func runLayout(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("no template to lay out")
	}
	if cmd.Args().Len() > 2 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	src, dst := cmd.Args().Get(0), cmd.Args().Get(1)

	engine := env.Engine
	if cmd.Bool("strict") {
		engine = engine.WithOption(api.WithStrict(true))
	}
	res, err := engine.LayoutFile(ctx, src, cmd.String("record"))
	if err != nil {
		return err
	}

	if cmd.Bool("trace") {
		for _, p := range res.Placements {
			env.Log.Info("Placement", zap.String("field", p.Field), zap.Int("page", p.Page+1),
				zap.Float64("y", p.Y), zap.Float64("height", p.Height), zap.Float64("drift", p.Drift),
				zap.String("parent", p.Parent), zap.Int("fragment", p.Fragment))
		}
	}

	out, err := create(dst)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()
	if err := api.EncodeTemplate(out, res.Template, template.FormatFromPath(dst)); err != nil {
		return fmt.Errorf("unable to write paged template: %w", err)
	}

	if len(dst) == 0 {
		dst = "STDOUT"
	}
	env.Log.Info("Layout finished", zap.String("template", src), zap.String("file", dst),
		zap.Int("pages", len(res.Template.Pages)), zap.Int("diagnostics", len(res.Diagnostics)))
	return nil
}

// previewFormat picks the preview type from the flag or the destination
// extension.
func previewFormat(flag, dst string) (string, error) {
	format := strings.ToLower(flag)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(dst)), ".")
		if format == "htm" {
			format = "html"
		}
	}
	switch format {
	case "pdf", "html":
		return format, nil
	}
	return "", fmt.Errorf("unsupported preview format %q", format)
}

func runPreview(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() < 2 {
		return fmt.Errorf("preview needs a template and a destination")
	}
	src, dst := cmd.Args().Get(0), cmd.Args().Get(1)

	format, err := previewFormat(cmd.String("format"), dst)
	if err != nil {
		return err
	}

	engine := env.Engine
	if title := cmd.String("title"); title != "" {
		engine = engine.WithOption(api.WithTitle(title))
	}
	tpl, err := engine.LoadTemplate(ctx, src)
	if err != nil {
		return err
	}
	var record api.Record
	if name := cmd.String("record"); name != "" {
		if record, err = engine.LoadRecord(ctx, name); err != nil {
			return err
		}
	}
	res, err := engine.Layout(ctx, tpl, record)
	if err != nil {
		return err
	}

	out, err := create(dst)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	if format == "html" {
		err = engine.RenderHTML(out, res.Template, record)
	} else {
		err = engine.RenderPDF(out, res.Template, record)
	}
	if err != nil {
		return fmt.Errorf("unable to render preview: %w", err)
	}
	env.Log.Info("Preview written", zap.String("format", format), zap.String("file", dst), zap.Int("pages", len(res.Template.Pages)))
	return nil
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		data []byte
		kind string
	)
	if cmd.Bool("default") {
		kind = "default"
		data = config.Prepare()
	} else {
		kind = "actual"
		if data, err = config.Dump(env.Cfg); err != nil {
			return fmt.Errorf("unable to get configuration: %w", err)
		}
	}

	out, err := create(fname)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", kind), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
