// mandelpoint tells whether a single complex number belongs to the
// Mandelbrot set.
//
//	mandelpoint -c "(-0.75+0.1i)" -iterations 1000

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	mandel "github.com/SzilvasiPeter/mandelplotter"
	"github.com/SzilvasiPeter/mandelplotter/sink"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("mandelpoint", flag.ContinueOnError)
	point := fs.String("c", "-0.75+0.1i", "complex number to test")
	budget := fs.Int("iterations", 1000, "iteration budget")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := strconv.ParseComplex(*point, 128)
	if err != nil {
		return fmt.Errorf("parse -c %q: %w", *point, err)
	}
	if *budget < 0 {
		return fmt.Errorf("%d: %w", *budget, mandel.ErrBudget)
	}

	return sink.Membership(stdout, c, mandel.InSet(c, *budget))
}
