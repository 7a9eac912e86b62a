package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-c", "web.json", "-a", ":8080"},
			allowed: []string{"-c"},
			want:    []string{"-c", "web.json"},
		},
		{
			name:    "equals form",
			args:    []string{"-config=web.json", "-a", ":8080"},
			allowed: []string{"-config"},
			want:    []string{"-config=web.json"},
		},
		{
			name:    "double dash accepted",
			args:    []string{"--api", "http://localhost:4000", "--timeout=5s"},
			allowed: []string{"-api", "-timeout"},
			want:    []string{"--api", "http://localhost:4000", "--timeout=5s"},
		},
		{
			name:    "unknown flags and positionals dropped",
			args:    []string{"-x", "1", "positional", "--y=2"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "flag followed by flag keeps no value",
			args:    []string{"-r", "-a", ":9000"},
			allowed: []string{"-r", "-a"},
			want:    []string{"-r", "-a", ":9000"},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "repeated flag preserved in order",
			args:    []string{"-c", "one.json", "-c", "two.json"},
			allowed: []string{"-c"},
			want:    []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:    "empty",
			args:    []string{},
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "/etc/web.json", ConfigPath([]string{"-c", "/etc/web.json"}))
	assert.Equal(t, "/etc/web.json", ConfigPath([]string{"-a", ":80", "-config=/etc/web.json"}))
	assert.Equal(t, "/two.json", ConfigPath([]string{"-c", "/one.json", "-config", "/two.json"}))
	assert.Empty(t, ConfigPath([]string{"-x", "1"}))
}

func TestJsonConfigFlags_ReadsProcessArgs(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"testbin", "-config", "/path/cfg.json"}
	assert.Equal(t, "/path/cfg.json", JsonConfigFlags())

	os.Args = []string{"testbin"}
	assert.Empty(t, JsonConfigFlags())
}
