package main

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// progressWriter returns the writer for the progress bar, or nil when the
// stream is not an interactive terminal.
func progressWriter(writer io.Writer) io.Writer {
	file, ok := writer.(*os.File)
	if !ok {
		return nil
	}
	fd := file.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return writer
	}
	return nil
}

// confirm asks a yes/no question on the command's streams. Anything other
// than an explicit yes answers no, including a non-interactive input.
func confirm(cmd *cobra.Command, prompt string) bool {
	in := cmd.InOrStdin()
	if file, ok := in.(*os.File); ok && !isatty.IsTerminal(file.Fd()) {
		return false
	}
	io.WriteString(cmd.OutOrStdout(), prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
