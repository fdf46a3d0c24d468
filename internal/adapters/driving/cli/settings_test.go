package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "****"},
		{"sk-short", "****"},
		{"sk-abcdef123456", "sk-a...3456"},
		{"sk-dashscope-0123456789abcdef", "sk-d...cdef"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, maskAPIKey(tt.key))
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 2},
		{"1", 1},
		{"2", 2},
		{"0", 2},
		{"3", 2},
		{"-1", 2},
		{"pdftoppm", 2},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseChoice(tt.input, 2, 2))
		})
	}
}

func TestLimitText(t *testing.T) {
	assert.Equal(t, "unlimited", limitText(0))
	assert.Equal(t, "unlimited", limitText(-3))
	assert.Equal(t, "12000", limitText(12000))
}

func TestOnOff(t *testing.T) {
	assert.Equal(t, "on", onOff(true))
	assert.Equal(t, "off", onOff(false))
}

func TestPrompt(t *testing.T) {
	cmd := &cobra.Command{}
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	reader := bufio.NewReader(strings.NewReader("  qwen-plus \n\n"))

	assert.Equal(t, "qwen-plus", prompt(cmd, reader, "Model", "qwen3-omni-flash"))
	assert.Equal(t, "qwen3-omni-flash", prompt(cmd, reader, "Model", "qwen3-omni-flash"))
	assert.Contains(t, out.String(), "Model [qwen3-omni-flash]: ")
}

func TestReadPassword_NonTerminal(t *testing.T) {
	in := strings.NewReader("sk-piped-key\n")
	assert.Equal(t, "sk-piped-key", readPassword(in, bufio.NewReader(in)))
}
