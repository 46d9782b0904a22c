package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/notation/lex"
)

// stdinName labels positions in text read from standard input.
const stdinName = "<stdin>"

// readSource reads the file named by args, or stdin when args is empty.
func readSource(stdin io.Reader, args []string) (name string, source string, err error) {
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return stdinName, string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("read file: %w", err)
	}
	return args[0], string(data), nil
}

// reportErrors prints the positioned errors in err as name:line:col:
// message and returns a short summary error. Other errors are returned
// unchanged.
func reportErrors(w io.Writer, name string, err error) error {
	if err == nil {
		return nil
	}
	var list lex.ErrorList
	var single *lex.ParseError
	switch {
	case errors.As(err, &list):
	case errors.As(err, &single):
		list = lex.ErrorList{single}
	default:
		return err
	}
	for _, e := range list {
		fmt.Fprintf(w, "%s:%s\n", name, e.Error())
	}
	if len(list) == 1 {
		return errors.New("1 error")
	}
	return fmt.Errorf("%d errors", len(list))
}
