package downloader

import (
	"fmt"

	id3v2 "github.com/bogem/id3v2/v2"
)

// embedTrackTags writes ID3v2 title/artist frames into a finished MP3.
// Tagging is best effort; a failure leaves the audio intact and only warns.
func embedTrackTags(path string, meta TrackMeta, printer *Printer) {
	if path == "" {
		return
	}
	if err := writeID3Tags(path, meta); err != nil && printer != nil {
		printer.Log(LogWarn, fmt.Sprintf("metadata tag embedding failed: %v", err))
	}
}

func writeID3Tags(path string, meta TrackMeta) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	if meta.Title != "" {
		tag.SetTitle(meta.Title)
	}
	if meta.Artist != "" {
		tag.SetArtist(meta.Artist)
	}
	return tag.Save()
}
