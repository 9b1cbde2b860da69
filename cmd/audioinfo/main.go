// Command audioinfo probes an audio file with every codec this module
// carries and prints its container metadata as JSON, exercising
// loader.Registry end to end the way climp-aac-decoder's aacparity
// command exercises its own decoder from the command line.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nuclex-go/audio/loader"
	"github.com/nuclex-go/audio/storage"
	"github.com/nuclex-go/audio/storage/flac"
	"github.com/nuclex-go/audio/storage/opus"
	"github.com/nuclex-go/audio/storage/vorbis"
	"github.com/nuclex-go/audio/storage/waveform"
	"github.com/nuclex-go/audio/storage/wavpack"
)

// NewDefaultRegistry constructs a loader.Registry with every codec this
// module carries, with Waveform and FLAC registered first so they are
// tried first whenever neither an extension hint nor the
// most-recently-used codec picks one.
func NewDefaultRegistry() *loader.Registry {
	registry := loader.NewRegistry(nil)
	registry.Register(waveform.Codec{})
	registry.Register(flac.Codec{})
	registry.Register(vorbis.Codec{})
	registry.Register(opus.Codec{})
	registry.Register(wavpack.Codec{})
	return registry
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <audio-file>\n", os.Args[0])
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	file, err := storage.OpenRealFileForReading(path, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", path, err)
		os.Exit(1)
	}

	extensionHint := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	registry := NewDefaultRegistry()
	info, ok, err := registry.TryReadInfo(file, extensionHint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: no registered codec recognized this file\n", path)
		os.Exit(1)
	}

	encoded, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}
