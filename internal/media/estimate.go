package media

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"

	gomp4 "github.com/abema/go-mp4"
	"go.uber.org/zap"
)

// Estimator guesses a file's duration in seconds without decoding it.
type Estimator interface {
	Estimate(path string, size int64) int
}

// Nominal bitrates in kbit/s used when no header gives a better answer.
var bitratesByExt = map[string]int64{
	".mp3":  128,
	".ogg":  128,
	".m4a":  128,
	".flac": 1000,
	".wav":  1400,
	".mp4":  1000,
	".avi":  1000,
	".mkv":  1000,
	".mov":  1000,
}

// FileEstimator peeks at WAV and MP4 headers and otherwise divides the file
// size by a nominal bitrate. Unknown extensions and unreadable files yield 0.
type FileEstimator struct {
	Log *zap.Logger
}

// Estimate returns the duration of path in whole seconds.
func (e FileEstimator) Estimate(path string, size int64) int {
	ext := strings.ToLower(filepath.Ext(path))
	kbps, ok := bitratesByExt[ext]
	if !ok {
		return 0
	}

	f, err := os.Open(path)
	if err != nil {
		e.logger().Debug("estimate: open failed", zap.String("path", path), zap.Error(err))
		return 0
	}
	defer f.Close()

	if size <= 0 {
		info, err := f.Stat()
		if err != nil {
			return 0
		}
		size = info.Size()
	}

	switch ext {
	case ".wav":
		if secs, ok := wavDuration(f); ok {
			return secs
		}
	case ".mp4", ".mov", ".m4a":
		if secs, ok := mp4Duration(f); ok {
			return secs
		}
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0
	}
	return int(size / (kbps * 1024 / 8))
}

func (e FileEstimator) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

// wavDuration walks the RIFF chunks for fmt and data.
func wavDuration(r io.ReadSeeker) (int, bool) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return 0, false
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return 0, false
	}

	var (
		byteRate int64
		dataSize int64
	)
	for byteRate == 0 || dataSize == 0 {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return 0, false
		}
		id := string(hdr[0:4])
		size := int64(binary.LittleEndian.Uint32(hdr[4:8]))
		switch id {
		case "fmt ":
			var fmtChunk [16]byte
			if size < 16 {
				return 0, false
			}
			if _, err := io.ReadFull(r, fmtChunk[:]); err != nil {
				return 0, false
			}
			channels := int64(binary.LittleEndian.Uint16(fmtChunk[2:4]))
			sampleRate := int64(binary.LittleEndian.Uint32(fmtChunk[4:8]))
			bits := int64(binary.LittleEndian.Uint16(fmtChunk[14:16]))
			byteRate = sampleRate * channels * bits / 8
			if byteRate <= 0 {
				return 0, false
			}
			size -= 16
		case "data":
			dataSize = size
			if byteRate == 0 {
				// fmt must precede data
				return 0, false
			}
			size = 0
		}
		if size > 0 {
			// chunks are word aligned
			if _, err := r.Seek(size+size%2, io.SeekCurrent); err != nil {
				return 0, false
			}
		}
	}
	return int(dataSize / byteRate), true
}

func mp4Duration(r io.ReadSeeker) (int, bool) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, false
	}
	info, err := gomp4.Probe(r)
	if err != nil || info.Timescale == 0 {
		return 0, false
	}
	return int(info.Duration / uint64(info.Timescale)), true
}
