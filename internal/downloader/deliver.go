package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kkdai/youtube/v2"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const mp3Bitrate = "192k"

// TrackMeta carries the tag values embedded into a delivered file.
type TrackMeta struct {
	Title  string
	Artist string
}

// Deliverer fetches the audio-only stream for a resolved video, transcodes
// it to MP3 and hands the finished bytes to a sink or a destination
// directory. A sink receives either a complete stream or nothing.
type Deliverer struct {
	Timeout time.Duration
	Printer *Printer
}

func NewDeliverer(timeout time.Duration, printer *Printer) *Deliverer {
	if printer == nil {
		printer = newPrinter(Options{Quiet: true})
	}
	return &Deliverer{Timeout: timeout, Printer: printer}
}

func (d *Deliverer) client() *youtube.Client {
	return &youtube.Client{
		HTTPClient: &http.Client{
			Timeout: d.Timeout,
			Transport: &consistentTransport{
				base:      sharedTransport,
				userAgent: defaultUserAgent,
			},
		},
	}
}

// ValidateReference checks that a reference is a well-formed video URL or
// ID and returns the canonical video ID.
func ValidateReference(reference string) (string, error) {
	id, err := youtube.ExtractVideoID(reference)
	if err != nil {
		return "", wrapCategory(CategoryInvalidReference, fmt.Errorf("invalid video reference %q: %w", reference, err))
	}
	return id, nil
}

// Info fetches title and format metadata for a reference.
func (d *Deliverer) Info(ctx context.Context, reference string) (*youtube.Video, error) {
	id, err := ValidateReference(reference)
	if err != nil {
		return nil, err
	}
	video, err := d.client().GetVideoContext(ctx, id)
	if err != nil {
		return nil, upstreamf("fetching metadata for %s: %w", id, err)
	}
	return video, nil
}

// pickAudioFormat selects the highest-bitrate audio-only representation.
func pickAudioFormat(video *youtube.Video) (*youtube.Format, error) {
	var best *youtube.Format
	for i := range video.Formats {
		f := &video.Formats[i]
		if f.AudioChannels == 0 || !isAudioMime(f.MimeType) {
			continue
		}
		if best == nil || bitrateForFormat(f) > bitrateForFormat(best) {
			best = f
		}
	}
	if best == nil {
		return nil, upstreamf("no audio-only format available for %s", video.ID)
	}
	return best, nil
}

func isAudioMime(mime string) bool {
	return len(mime) >= 6 && mime[:6] == "audio/"
}

func bitrateForFormat(f *youtube.Format) int {
	if f.Bitrate > 0 {
		return f.Bitrate
	}
	return f.AverageBitrate
}

// Deliver streams the transcoded MP3 for video into sink and returns the
// sanitized display filename (extension included). The transcode is staged
// through temp files so a failing conversion never writes partial output.
func (d *Deliverer) Deliver(ctx context.Context, video ResolvedVideo, sink io.Writer) (string, error) {
	mp3Path, filename, cleanup, err := d.transcodeToTemp(ctx, video, os.TempDir())
	if err != nil {
		return "", err
	}
	defer cleanup()

	file, err := os.Open(mp3Path)
	if err != nil {
		return "", wrapCategory(CategoryFilesystem, err)
	}
	defer file.Close()
	if _, err := io.Copy(sink, file); err != nil {
		return "", wrapCategory(CategoryFilesystem, fmt.Errorf("writing to sink: %w", err))
	}
	return filename, nil
}

// DeliverFile writes <destDir>/<sanitized title>.mp3, creating destDir if
// absent, and embeds ID3 tags from meta afterwards. Tag failures only warn.
func (d *Deliverer) DeliverFile(ctx context.Context, video ResolvedVideo, destDir string, meta TrackMeta) (string, error) {
	if destDir == "" {
		destDir = "downloads"
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", wrapCategory(CategoryFilesystem, fmt.Errorf("creating destination directory: %w", err))
	}

	mp3Path, filename, cleanup, err := d.transcodeToTemp(ctx, video, destDir)
	if err != nil {
		return "", err
	}
	defer cleanup()

	finalPath := filepath.Join(destDir, filename)
	if err := os.Rename(mp3Path, finalPath); err != nil {
		return "", wrapCategory(CategoryFilesystem, err)
	}

	if meta.Title == "" {
		meta.Title = SanitizeTitle(video.Title)
	}
	embedTrackTags(finalPath, meta, d.Printer)
	return filename, nil
}

// transcodeToTemp downloads the raw audio representation next to the
// destination and runs ffmpeg over it. On success it returns the path of
// the finished MP3 temp file, the display filename and a cleanup func for
// the intermediates.
func (d *Deliverer) transcodeToTemp(ctx context.Context, video ResolvedVideo, workDir string) (string, string, func(), error) {
	noop := func() {}
	id, err := ValidateReference(video.ID)
	if err != nil {
		return "", "", noop, err
	}

	client := d.client()
	full, err := client.GetVideoContext(ctx, id)
	if err != nil {
		return "", "", noop, upstreamf("fetching metadata for %s: %w", id, err)
	}

	format, err := pickAudioFormat(full)
	if err != nil {
		return "", "", noop, err
	}

	stream, _, err := client.GetStreamContext(ctx, full, format)
	if err != nil {
		return "", "", noop, upstreamf("opening audio stream for %s: %w", id, err)
	}
	defer stream.Close()

	title := video.Title
	if title == "" {
		title = full.Title
	}
	filename := SanitizeTitle(title) + ".mp3"

	rawFile, err := os.CreateTemp(workDir, "musicfetch-*."+mimeToExt(format.MimeType))
	if err != nil {
		return "", "", noop, wrapCategory(CategoryFilesystem, err)
	}
	rawPath := rawFile.Name()
	removeRaw := func() { os.Remove(rawPath) }

	if _, err := io.Copy(rawFile, stream); err != nil {
		rawFile.Close()
		removeRaw()
		return "", "", noop, upstreamf("downloading audio for %s: %w", id, err)
	}
	if err := rawFile.Close(); err != nil {
		removeRaw()
		return "", "", noop, wrapCategory(CategoryFilesystem, err)
	}

	mp3Path := rawPath + ".mp3"
	if err := transcodeMP3(rawPath, mp3Path); err != nil {
		removeRaw()
		os.Remove(mp3Path)
		return "", "", noop, wrapCategory(CategoryTranscode, fmt.Errorf("transcoding %s: %w", id, err))
	}
	removeRaw()

	cleanup := func() { os.Remove(mp3Path) }
	return mp3Path, filename, cleanup, nil
}

// transcodeMP3 runs ffmpeg with fixed encoding parameters: MP3 container,
// libmp3lame at 192 kbps, video streams dropped.
func transcodeMP3(inputPath, outputPath string) error {
	return ffmpeg.Input(inputPath).
		Output(outputPath, ffmpeg.KwArgs{
			"vn":     "",
			"acodec": "libmp3lame",
			"b:a":    mp3Bitrate,
			"f":      "mp3",
		}).
		OverWriteOutput().
		Silent(true).
		Run()
}
