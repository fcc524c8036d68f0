package main

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParsePinList(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	log := logrus.NewEntry(logger)

	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{
			name:  "simple list",
			input: "17,27,22",
			want:  []int{17, 27, 22},
		},
		{
			name:  "whitespace and empty entries",
			input: " 17 , ,27, ",
			want:  []int{17, 27},
		},
		{
			name:  "bad entries skipped",
			input: "17,abc,27",
			want:  []int{17, 27},
		},
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePinList(tt.input, log)
			if len(got) != len(tt.want) {
				t.Fatalf("parsePinList(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parsePinList(%q)[%d] = %d, want %d", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "0.0.0.0" || cfg.Port != 5000 || cfg.Debug {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("API_HOST", "127.0.0.1")
	t.Setenv("API_PORT", "8080")
	t.Setenv("API_DEBUG", "true")
	t.Setenv("DEFAULT_PINS", "17,27")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "127.0.0.1" || cfg.Port != 8080 || !cfg.Debug {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.DefaultPins != "17,27" {
		t.Errorf("DefaultPins = %q", cfg.DefaultPins)
	}
}
