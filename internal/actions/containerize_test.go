// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"os"
	"testing"

	"github.com/palm-cli/palm/internal/config"
)

func TestContainerize(t *testing.T) {
	t.Parallel()

	h := newHarness(t, harnessConfig{cfg: &config.Config{ImageName: "my_app"}})
	h.write("", ".env")
	h.write("flask\n", "requirements.txt")

	if code := h.invoke("containerize"); code != 0 {
		t.Fatalf("containerize exit = %d, stderr = %s", code, h.stderr.String())
	}
	assertContains(t, "Dockerfile", h.read("Dockerfile"), "FROM python:3.11-slim")
	assertContains(t, "docker-compose.yaml", h.read("docker-compose.yaml"), "  my_app:")
	assertContains(t, "docker-compose.yaml", h.read("docker-compose.yaml"), `version: "3.8"`)

	info, err := os.Stat(h.path("scripts", "entrypoint.sh"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Errorf("entrypoint.sh is not executable: %v", info.Mode())
	}

	if code := h.invoke("containerize"); code == 0 {
		t.Error("second containerize succeeded")
	}
	assertContains(t, "stderr", h.stderr.String(), "Containerization already exists")
}

func TestContainerize_Options(t *testing.T) {
	t.Parallel()

	h := newHarness(t, harnessConfig{})
	h.write("", ".env")
	h.write("", "poetry.lock")

	if code := h.invoke("containerize", "--version", "3.9", "--base-image", "python:3.12"); code != 0 {
		t.Fatalf("containerize exit = %d, stderr = %s", code, h.stderr.String())
	}
	assertContains(t, "Dockerfile", h.read("Dockerfile"), "FROM python:3.12")
	assertContains(t, "Dockerfile", h.read("Dockerfile"), "poetry install")
	assertContains(t, "docker-compose.yaml", h.read("docker-compose.yaml"), `version: "3.9"`)
}

func TestContainerize_CreatesEnvAndRequirements(t *testing.T) {
	t.Parallel()

	h := newHarness(t, harnessConfig{prompter: &fakePrompter{confirms: []bool{true, true}}})
	if code := h.invoke("containerize"); code != 0 {
		t.Fatalf("containerize exit = %d, stderr = %s", code, h.stderr.String())
	}
	for _, f := range []string{".env", "requirements.txt", "Dockerfile"} {
		if _, err := os.Stat(h.path(f)); err != nil {
			t.Errorf("%s not created: %v", f, err)
		}
	}
}

func TestContainerize_Declined(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		confirms []bool
	}{
		{"no env", []bool{false}},
		{"no package manager", []bool{true, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, harnessConfig{prompter: &fakePrompter{confirms: tt.confirms}})
			if code := h.invoke("containerize"); code == 0 {
				t.Error("containerize succeeded after declining")
			}
			assertContains(t, "stderr", h.stderr.String(), "Aborting containerization")
			if _, err := os.Stat(h.path("Dockerfile")); !os.IsNotExist(err) {
				t.Errorf("Dockerfile written after abort: %v", err)
			}
		})
	}
}
