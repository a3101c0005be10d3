// Command log4humanz translates JSON logs of hs3 into a human readable form.
// It reads the file given as the only argument, or the standard input if there is none.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Setheum-Labs/HS3/pkg/logging"
)

func main() {
	flag.Parse()
	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Usage: log4humanz [logfile.json]")
		os.Exit(1)
	}

	var input io.Reader = os.Stdin
	if flag.NArg() == 1 {
		name := flag.Arg(0)
		file, err := os.Open(name)
		switch {
		case os.IsNotExist(err):
			fmt.Fprintf(os.Stderr, "%s: file not present\n", name)
			os.Exit(1)
		case err != nil:
			fmt.Fprintf(os.Stderr, "%s: cannot open file\n", name)
			os.Exit(1)
		}
		defer file.Close()
		input = file
	}

	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	decoder := logging.NewDecoder(os.Stdout)
	for scanner.Scan() {
		decoder.Write(scanner.Bytes())
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "reading failed: %v\n", err)
	}
}
