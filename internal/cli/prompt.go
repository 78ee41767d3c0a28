package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

func (rt *runtime) reader() *bufio.Reader {
	if rt.input == nil {
		rt.input = bufio.NewReader(rt.streams.In)
	}
	return rt.input
}

// ask prints label and reads one trimmed line.
func (rt *runtime) ask(label string) (string, error) {
	fmt.Fprint(rt.streams.Err, label)
	line, err := rt.reader().ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question defaulting to no. --yes answers it.
func (rt *runtime) confirm(question string) error {
	if rt.opts.yes {
		return nil
	}
	if !rt.interactive() {
		return errNeedsYes
	}
	answer, err := rt.ask(question + " [y/N]: ")
	if err != nil {
		return errAborted
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return nil
	}
	return errAborted
}
