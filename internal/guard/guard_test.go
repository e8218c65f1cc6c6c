package guard

import (
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	root := t.TempDir()
	g, err := New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name        string
		input       string
		wantPath    string
		wantOutside bool
	}{
		{
			name:     "relative path inside workspace",
			input:    "foo/bar.txt",
			wantPath: filepath.Join(g.Root(), "foo/bar.txt"),
		},
		{
			name:     "absolute path inside workspace",
			input:    filepath.Join(g.Root(), "file.txt"),
			wantPath: filepath.Join(g.Root(), "file.txt"),
		},
		{
			name:     "dot segments normalize",
			input:    "./foo/./bar.txt",
			wantPath: filepath.Join(g.Root(), "foo/bar.txt"),
		},
		{
			name:     "workspace root itself",
			input:    ".",
			wantPath: g.Root(),
		},
		{
			name:        "dotdot escaping workspace",
			input:       "../../etc/hosts",
			wantOutside: true,
		},
		{
			name:        "absolute path outside workspace",
			input:       "/etc/hosts",
			wantOutside: true,
		},
		{
			name:        "parent of workspace",
			input:       "..",
			wantOutside: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			abs, err := g.Resolve(tt.input)
			if tt.wantOutside {
				if !IsOutOfBounds(err) {
					t.Fatalf("expected OutOfBounds error, got path=%q err=%v", abs, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if abs != tt.wantPath {
				t.Errorf("got %q, want %q", abs, tt.wantPath)
			}
		})
	}
}

func TestValidateDangerousFiles(t *testing.T) {
	g, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	dangerous := []string{
		"id_rsa",
		"keys/id_ed25519",
		".env",
		".env.production",
		"certs/server.pem",
		"app.KEY",
		"backup.p12",
		".ssh/known_hosts",
		".aws/config",
		".kube/config",
		"my_password_list.txt",
		"SECRETS.md",
		"private-notes.txt",
		"deploy/credentials",
		".netrc",
	}
	for _, p := range dangerous {
		if _, err := g.Validate(p); !IsDangerous(err) {
			t.Errorf("Validate(%q) = %v, want DangerousFile", p, err)
		}
	}

	safe := []string{
		"main.go",
		"README.md",
		"docs/keyboard.md",
		"src/envelope.go",
		"config.yaml",
	}
	for _, p := range safe {
		if _, err := g.Validate(p); err != nil {
			t.Errorf("Validate(%q) = %v, want ok", p, err)
		}
	}
}

func TestValidateOutsideBeatsDenylist(t *testing.T) {
	g, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// An out-of-bounds path fails as OutOfBounds even when it would also
	// match the denylist.
	if _, err := g.Validate("/etc/shadow"); !IsOutOfBounds(err) {
		t.Errorf("got %v, want OutOfBounds", err)
	}
}
