// sexp-dump is a diagnostic for malformed schematic files: it runs the raw
// s-expression layer over a file without any schematic interpretation, so a
// parse failure can be narrowed down to syntax before blaming the document
// model.
package main

import (
	"fmt"
	"os"

	"github.com/chewxy/sexp"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: sexp-dump <file.kicad_sch>")
		os.Exit(1)
	}

	filename := os.Args[1]
	file, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	info, _ := file.Stat()
	fmt.Printf("File size: %d bytes (%.2f MB)\n", info.Size(), float64(info.Size())/1024/1024)

	sexps, err := sexp.Parse(file)
	if err != nil {
		fmt.Printf("Parse error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d top-level s-expressions\n", len(sexps))
	for i, s := range sexps {
		if i >= 5 {
			fmt.Printf("  ... %d more\n", len(sexps)-i)
			break
		}
		if s.IsLeaf() {
			fmt.Printf("  #%d: leaf %s\n", i, s)
		} else {
			fmt.Printf("  #%d: list, %d leaves, head %s\n", i, s.LeafCount(), s.Head())
		}
	}
}
