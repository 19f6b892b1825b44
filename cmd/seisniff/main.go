// Command seisniff reads a fragmented MP4 segment and prints the SEI events
// the caption coordinator extracts from it, given a track id and timescale.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tetsuo/fmp4sei/caption"
)

// eventView is the JSON-friendly projection of a caption.Event; payload
// bytes are hex-encoded so the output stays readable on a terminal.
type eventView struct {
	PTS         float64 `json:"pts"`
	PayloadType uint32  `json:"payloadType"`
	PayloadSize uint32  `json:"payloadSize"`
	Payload     string  `json:"payload"`
}

func main() {
	trackID := flag.Uint("track", 0, "video track id to extract SEI from")
	timescale := flag.Uint("timescale", 90000, "timescale (ticks per second) of the track")
	formatFlag := flag.String("format", "text", "output format: text (default), json")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s --track=N [--timescale=90000] [--format=text|json] <segment.m4s>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 || *trackID == 0 {
		flag.Usage()
		os.Exit(1)
	}

	format := strings.ToLower(*formatFlag)
	if format != "text" && format != "json" {
		fmt.Fprintf(os.Stderr, "unknown format: %s\n", *formatFlag)
		os.Exit(1)
	}

	segment, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading segment: %v\n", err)
		os.Exit(1)
	}

	ids := []uint32{uint32(*trackID)}
	scales := map[uint32]uint32{uint32(*trackID): uint32(*timescale)}

	c := caption.NewCoordinator()
	c.Init(nil)
	result := c.Parse(segment, ids, scales)
	if result == nil {
		return
	}

	for _, l := range result.Logs {
		fmt.Fprintf(os.Stderr, "%s: %s\n", l.Level, l.Message)
	}

	switch format {
	case "json":
		views := make([]eventView, len(result.SEI))
		for i, e := range result.SEI {
			views[i] = eventView{
				PTS:         e.PTS,
				PayloadType: e.PayloadType,
				PayloadSize: e.PayloadSize,
				Payload:     fmt.Sprintf("%x", e.Payload),
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(views); err != nil {
			fmt.Fprintf(os.Stderr, "error encoding JSON: %v\n", err)
		}
	case "text":
		for _, e := range result.SEI {
			fmt.Printf("pts=%.6f type=%d size=%d payload=%x\n", e.PTS, e.PayloadType, e.PayloadSize, e.Payload)
		}
	}
}
