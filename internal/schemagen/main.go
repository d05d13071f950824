// Command schemagen writes the JSON schema of the flip configuration file,
// with descriptions taken from Go doc comments.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/macropower/flip/pkg/config"
)

const modulePath = "github.com/macropower/flip"

var (
	outFile = flag.String("o", "config.v1beta1.json", "Output file for the generated schema")
	rootDir = flag.String("root", ".", "Module root directory, used to read doc comments")
)

func main() {
	flag.Parse()

	out, err := filepath.Abs(*outFile)
	if err != nil {
		log.Fatalf("resolve output path: %v", err)
	}

	// Comment keys are derived from paths relative to the module root.
	err = os.Chdir(*rootDir)
	if err != nil {
		log.Fatalf("change to module root: %v", err)
	}

	r := config.NewReflector()

	err = r.AddGoComments(modulePath, ".")
	if err != nil {
		log.Fatalf("read doc comments: %v", err)
	}

	jsData, err := json.MarshalIndent(config.Schema(r), "", "  ")
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(out, append(jsData, '\n'), 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
