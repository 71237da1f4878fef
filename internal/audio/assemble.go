package audio

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tcolgate/mp3"
)

var execCommand = exec.Command

// WriteSegments writes the ordered segments to path as one file. MP3 frames
// concatenate cleanly when every segment comes from the same encoder
// settings, so a multi-segment write is a plain in-order copy and a single
// segment is a pass-through.
func WriteSegments(segments [][]byte, path string) error {
	if len(segments) == 0 {
		return fmt.Errorf("no audio segments")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, segment := range segments {
		if _, err := f.Write(segment); err != nil {
			return err
		}
	}
	return nil
}

// AppendOutro decodes path and the outro clip, concatenates them and
// re-encodes once at 128k, replacing path. The caller treats any error as
// non-fatal: the episode is simply published without the outro.
func AppendOutro(path, outroPath string) error {
	if outroPath == "" {
		return nil
	}
	if _, err := os.Stat(outroPath); err != nil {
		return fmt.Errorf("outro clip not found at %s", outroPath)
	}

	tmp := path + ".outro.tmp.mp3"
	cmd := execCommand("ffmpeg",
		"-y",
		"-i", path,
		"-i", outroPath,
		"-filter_complex", "[0:a][1:a]concat=n=2:v=0:a=1[out]",
		"-map", "[out]",
		"-b:a", "128k",
		"-f", "mp3",
		tmp,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("ffmpeg concat failed: %w: %s", err, tail(output, 300))
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}

	if d, derr := Duration(path); derr == nil {
		log.Debug().Dur("total", d).Str("file", path).Msg("outro appended")
	}
	return nil
}

// Duration scans the MP3 frames of path and sums their play time. Used for
// logging only: the duration stored on an episode stays the word-count
// estimate.
func Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	decoder := mp3.NewDecoder(f)
	var frame mp3.Frame
	var skipped int
	var total time.Duration
	for {
		if err := decoder.Decode(&frame, &skipped); err != nil {
			if err == io.EOF {
				break
			}
			return total, err
		}
		total += frame.Duration()
	}
	return total, nil
}

func tail(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[len(b)-n:])
}
