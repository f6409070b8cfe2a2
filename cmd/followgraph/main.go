// Command followgraph builds the follow graph of a fixed population, its
// metrics and its community partitions, one stage at a time or as a whole run.
package main

import (
	"fmt"
	"os"

	"github.com/dd0wney/cluso-followgraph/pkg/pipeline"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if pipeline.IsFatal(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
