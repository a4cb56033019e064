package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/dropkit/pkg/config"
	"github.com/matzehuels/dropkit/pkg/errors"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"place", "simulate", "demo", "states", "serve", "config", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag missing")
	}
}

func TestCompletion(t *testing.T) {
	output := func(args ...string) string {
		t.Helper()
		var buf bytes.Buffer
		root := New(io.Discard, LogInfo).RootCommand()
		root.SetArgs(args)
		root.SetOut(&buf)
		root.SetErr(io.Discard)
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return buf.String()
	}

	if got := output("completion", "bash"); !strings.Contains(got, "dropkit") {
		t.Error("bash completion does not mention dropkit")
	}
	policies := output("__complete", "place", "--policy", "")
	for _, want := range []string{"space", "rows"} {
		if !strings.Contains(policies, want) {
			t.Errorf("--policy completions missing %q:\n%s", want, policies)
		}
	}
	if got := output("__complete", "serve", "--cache", ""); !strings.Contains(got, "redis") {
		t.Errorf("--cache completions = %q", got)
	}
	if err := run(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}

func TestPlaceCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if err := run(t, "place", "--top", "500", "--viewport", "800x540", "--resize", "800x300", "--json"); err != nil {
		t.Errorf("place error = %v", err)
	}
	err := run(t, "place", "--top", "500", "--viewport", "800x540", "--rows", "0")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("place --rows 0 error = %v", err)
	}
}

func TestSimulateCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if err := run(t, "simulate", "--top", "100", "--viewport", "800x600", "--hide-at", "80ms", "--json"); err != nil {
		t.Errorf("simulate error = %v", err)
	}
	if err := run(t, "simulate", "--viewport", "800x600", "--resize-at", "10ms"); err == nil {
		t.Error("--resize-at without --resize-to should fail")
	}
}

func TestStatesCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "states.dot")
	if err := run(t, "states", "-o", out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("empty DOT output")
	}
	if err := run(t, "states", "--table"); err != nil {
		t.Errorf("states --table error = %v", err)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dropkit.toml")
	if err := run(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, err := config.Load(path); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
	if err := run(t, "--config", path, "config", "init"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("second init error = %v, want refusal", err)
	}
	if err := run(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("forced init error = %v", err)
	}
	if err := run(t, "--config", path, "config", "show"); err != nil {
		t.Errorf("config show error = %v", err)
	}
}

func TestMissingExplicitConfig(t *testing.T) {
	err := run(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "place", "--viewport", "80x24")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}
