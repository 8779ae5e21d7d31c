package ward_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ashbourne/ward"
)

func TestPrintGraphEmpty(t *testing.T) {
	t.Parallel()

	c := ward.New()

	var buf bytes.Buffer
	c.FprintGraph(&buf)

	if !strings.Contains(buf.String(), "empty container") {
		t.Errorf("expected empty container message, got: %s", buf.String())
	}
}

func TestPrintGraph(t *testing.T) {
	t.Parallel()

	c := ward.New()

	_ = ward.ProvideValue(c, &Config{Port: 8080})
	_ = ward.Provide(
		c, func(ctx context.Context, r ward.Resolver) (*Database, error) {
			_ = ward.MustInvoke[*Config](c)
			return &Database{}, nil
		},
	)

	var buf bytes.Buffer
	c.FprintGraph(&buf)

	output := buf.String()
	if !strings.Contains(output, "Config") {
		t.Errorf("expected Config in output, got: %s", output)
	}
	if !strings.Contains(output, "Database") {
		t.Errorf("expected Database in output, got: %s", output)
	}
}

func TestPrintGraphWithInstantiated(t *testing.T) {
	t.Parallel()

	c := ward.New()

	_ = ward.ProvideValue(c, &Config{Port: 8080})
	_ = ward.MustInvoke[*Config](c)

	var buf bytes.Buffer
	c.FprintGraph(&buf)

	output := buf.String()
	if !strings.Contains(output, "●") {
		t.Errorf("expected instantiated marker (●), got: %s", output)
	}
}

func TestPrintGraphNotInstantiated(t *testing.T) {
	t.Parallel()

	c := ward.New()

	_ = ward.Provide(
		c, func(ctx context.Context, r ward.Resolver) (*Config, error) {
			return &Config{Port: 8080}, nil
		},
	)

	var buf bytes.Buffer
	c.FprintGraph(&buf)

	output := buf.String()
	if !strings.Contains(output, "○") {
		t.Errorf("expected not-instantiated marker (○), got: %s", output)
	}
}

func TestSprintGraph(t *testing.T) {
	t.Parallel()

	c := ward.New()
	_ = ward.ProvideValue(c, &Config{Port: 8080})

	output := c.SprintGraph()
	if output == "" {
		t.Error("expected non-empty output")
	}
}

func TestPrintGraphDOT(t *testing.T) {
	t.Parallel()

	c := ward.New()

	_ = ward.ProvideValue(c, &Config{Port: 8080})
	_ = ward.Provide(
		c, func(ctx context.Context, r ward.Resolver) (*Database, error) {
			return &Database{}, nil
		}, ward.WithDependencies("*ward_test.Config"),
	)

	var buf bytes.Buffer
	c.FprintGraphDOT(&buf)

	output := buf.String()
	if !strings.Contains(output, "digraph dependencies") {
		t.Errorf("expected digraph header, got: %s", output)
	}
	if !strings.Contains(output, "rankdir=LR") {
		t.Errorf("expected rankdir, got: %s", output)
	}
	if !strings.Contains(output, "->") {
		t.Errorf("expected edge, got: %s", output)
	}
}

func TestSprintGraphDOT(t *testing.T) {
	t.Parallel()

	c := ward.New()
	_ = ward.ProvideValue(c, &Config{Port: 8080})

	output := c.SprintGraphDOT()
	if !strings.Contains(output, "digraph") {
		t.Error("expected digraph in output")
	}
}

func TestGraphInfo(t *testing.T) {
	t.Parallel()

	c := ward.New()

	_ = ward.ProvideValue(c, &Config{Port: 8080})
	_ = ward.Provide(
		c, func(ctx context.Context, r ward.Resolver) (*Database, error) {
			return &Database{}, nil
		}, ward.WithDependencies("*ward_test.Config"),
	)

	info := c.Graph()

	if len(info.Services) != 2 {
		t.Errorf("expected 2 services, got %d", len(info.Services))
	}
}
