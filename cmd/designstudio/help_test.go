package main

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunHelp - Per-command help
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want string
	}{
		{nil, "Commands:"},
		{[]string{"render"}, "--workers"},
		{[]string{"generate"}, "--source"},
		{[]string{"assets"}, "designstudio assets"},
		{[]string{"formats"}, "--json"},
		{[]string{"serve"}, "--addr"},
		{[]string{"doctor"}, "designstudio doctor [--json]"},
		{[]string{"completion"}, "designstudio completion <shell>"},
		{[]string{"version"}, "Show version information."},
		{[]string{"help"}, "designstudio help [command]"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(nil, nil)
			runHelp(tt.args, env.Environment)
			if !strings.Contains(env.stdout.String(), tt.want) {
				t.Errorf("help output missing %q:\n%s", tt.want, env.stdout.String())
			}
		})
	}
}

func TestRunHelp_UnknownCommand(t *testing.T) {
	t.Parallel()

	env := newTestEnv(nil, nil)
	runHelp([]string{"paint"}, env.Environment)

	if env.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", env.stdout.String())
	}
	if !strings.Contains(env.stderr.String(), "Unknown command: paint") {
		t.Errorf("stderr = %q", env.stderr.String())
	}
}
