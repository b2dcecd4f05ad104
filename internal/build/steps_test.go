package build

import (
	"reflect"
	"strings"
	"testing"
)

func TestAptInstallCommand(t *testing.T) {
	cmd := aptInstallCommand([]string{"git", "curl"})

	for _, want := range []string{
		"apt-get update",
		"apt-get install -y --no-install-recommends git curl",
		"rm -rf /var/lib/apt/lists/*",
	} {
		if !strings.Contains(cmd, want) {
			t.Errorf("command %q missing %q", cmd, want)
		}
	}

	// The refresh must run before the install, the cleanup after.
	update := strings.Index(cmd, "apt-get update")
	install := strings.Index(cmd, "apt-get install")
	cleanup := strings.Index(cmd, "rm -rf")
	if !(update < install && install < cleanup) {
		t.Errorf("command parts out of order: %q", cmd)
	}
}

func TestPipInstallCommand(t *testing.T) {
	cmd := pipInstallCommand("requirements.txt")
	if cmd != "pip install --no-cache-dir -r requirements.txt" {
		t.Errorf("command = %q", cmd)
	}
}

func TestEnviron(t *testing.T) {
	env := map[string]string{
		"PYTHONUNBUFFERED":        "1",
		"PYTHONDONTWRITEBYTECODE": "1",
		"APP_MODE":                "prod",
	}

	want := []string{
		"APP_MODE=prod",
		"PYTHONDONTWRITEBYTECODE=1",
		"PYTHONUNBUFFERED=1",
	}

	got := environ(env)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("environ = %v, want %v", got, want)
	}

	// Deterministic across runs regardless of map iteration order.
	for i := 0; i < 50; i++ {
		if next := environ(env); !reflect.DeepEqual(next, got) {
			t.Fatalf("run %d produced %v, want %v", i, next, got)
		}
	}
}

func TestEnvironEmpty(t *testing.T) {
	if got := environ(nil); len(got) != 0 {
		t.Errorf("environ(nil) = %v, want empty", got)
	}
}
