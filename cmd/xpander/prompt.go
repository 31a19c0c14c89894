package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Prompt asks on the terminal for the destination folder.
// An empty answer, the end of the input or a cancelled context
// declines the question.
type Prompt struct {
	In  io.Reader
	Out io.Writer
}

// PromptFolder writes the question to Out and reads one line from In.
func (p Prompt) PromptFolder(ctx context.Context) (string, bool) {
	fmt.Fprint(p.Out, "Destination folder (empty to cancel): ")
	answer := make(chan string, 1)
	// A cancelled question leaves this read blocked on the input,
	// the command exits soon after so it is never collected.
	go func() {
		line, _ := bufio.NewReader(p.In).ReadString('\n')
		answer <- strings.TrimSpace(line)
	}()
	select {
	case <-ctx.Done():
		fmt.Fprintln(p.Out)
		return "", false
	case s := <-answer:
		return s, s != ""
	}
}
