// Command openapi writes the API description document to a file, for docs
// pipelines that publish the spec without running the service.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/archis17/AI-KYC/internal/api"
	"github.com/archis17/AI-KYC/internal/config"
	"github.com/archis17/AI-KYC/pkg/openapi"
)

func main() {
	out := flag.String("out", "openapi.json", "Output file path")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	spec := api.BuildSpec(cfg)
	if err := openapi.WriteJSON(spec, *out); err != nil {
		log.Fatalf("failed to write spec: %v", err)
	}

	fmt.Printf("wrote %s (%s %s)\n", *out, spec.Info.Title, spec.Info.Version)
}
