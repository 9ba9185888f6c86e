package main

import (
	"bytes"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestQuoteCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"base in", []string{"--side", "base", "--amount", "1"}, "1.978041738678708079"},
		{"token in", []string{"--side", "token", "--amount", "2"}, "0.989020869339354039"},
		{"zero fee", []string{"--side", "token", "--amount", "2000", "--fee-numerator", "0"}, "500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"quote", "--base-reserve", "1000", "--token-reserve", "2000"}, tt.args...)
			got, err := runCLI(t, args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("quote = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestQuoteCommand_Errors(t *testing.T) {
	tests := [][]string{
		{"quote", "--base-reserve", "0", "--token-reserve", "2000", "--amount", "1"},
		{"quote", "--base-reserve", "1000", "--token-reserve", "2000", "--amount", "x"},
		{"quote", "--base-reserve", "1000", "--token-reserve", "2000", "--amount", "1", "--side", "both"},
		{"quote", "--base-reserve", "1000", "--token-reserve", "2000", "--amount", "1", "--fee-numerator", "100"},
	}
	for _, args := range tests {
		if _, err := runCLI(t, args...); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}
