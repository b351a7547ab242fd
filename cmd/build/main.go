package main

import (
	"fmt"
	"log"
	"runtime"

	"github.com/evanw/esbuild/pkg/api"
)

// Bundles the page script. The wasm binary itself is built with
// GOOS=js GOARCH=wasm go build -o cmd/web/assets/flowcanvas.wasm ./cmd/wasm
func main() {
	buildOpts := api.BuildOptions{
		EntryPointsAdvanced: []api.EntryPoint{
			{
				InputPath:  "cmd/web/frontend/index.js",
				OutputPath: "index",
			},
			{
				InputPath:  fmt.Sprintf("%s/lib/wasm/wasm_exec.js", runtime.GOROOT()),
				OutputPath: "wasm_exec",
			},
		},
		External:          []string{"./wasm_exec.js"},
		Outdir:            "cmd/web/assets/js",
		Bundle:            true,
		Platform:          api.PlatformBrowser,
		Format:            api.FormatESModule,
		Target:            api.ESNext,
		MinifyWhitespace:  true,
		MinifySyntax:      true,
		MinifyIdentifiers: true,
		Write:             true,
	}
	result := api.Build(buildOpts)
	if len(result.Errors) != 0 {
		log.Fatalf("esbuild failed (%v)", result.Errors)
	}
	for _, w := range result.Warnings {
		log.Printf("esbuild: %s", w.Text)
	}
}
