package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"simrover-go/internal/output"
	"simrover-go/internal/transport"
	"simrover-go/internal/vision"
)

func main() {
	var (
		path  = flag.String("path", "", "Path to raw signal log .bin file")
		limit = flag.Int("limit", 10, "Number of records to dump (0 for all)")
	)
	flag.Parse()

	if *path == "" {
		log.Fatal("path is required")
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("open raw log: %v", err)
	}
	defer f.Close()

	header := make([]byte, len(output.RawLogMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		log.Fatalf("read magic: %v", err)
	}
	if string(header) != output.RawLogMagic {
		log.Fatalf("unexpected raw log magic %q", string(header))
	}

	count := 0
	for {
		if *limit > 0 && count >= *limit {
			return
		}
		var meta [12]byte
		if _, err := io.ReadFull(f, meta[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return
			}
			log.Fatalf("read record header: %v", err)
		}
		ts := int64(binary.LittleEndian.Uint64(meta[:8]))
		size := binary.LittleEndian.Uint32(meta[8:12])
		if size == 0 {
			log.Printf("record %d: empty payload", count)
			count++
			continue
		}
		payload := make([]byte, size)
		if _, err := io.ReadFull(f, payload); err != nil {
			log.Fatalf("read payload: %v", err)
		}

		log.Printf("record %d timestamp=%s size=%d", count, time.Unix(0, ts).Format(time.RFC3339Nano), size)
		describe(payload)
		count++
	}
}

// describe prints whatever structure can be recovered from a payload: a
// decodable camera frame, a plain float vector, or raw bytes (battery
// strings and the like).
func describe(payload []byte) {
	values, err := transport.UnpackFloats(payload)
	if err != nil {
		fmt.Printf("  bytes: %q\n", truncate(string(payload), 64))
		return
	}

	if frame, err := vision.Decode(values); err == nil {
		r, g, b := vision.RGB(frame)
		fmt.Printf("  camera frame %dx%d reflection=%.1f%% rgb=(%.1f, %.1f, %.1f)\n",
			frame.Res, frame.Res, vision.Reflection(frame), r, g, b)
		return
	}

	shown := values
	if len(shown) > 8 {
		shown = shown[:8]
	}
	fmt.Printf("  floats (%d): %v\n", len(values), shown)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
