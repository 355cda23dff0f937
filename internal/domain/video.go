package domain

// VideoStatus is the server-side processing state of a video.
type VideoStatus string

const (
	VideoUploading VideoStatus = "UPLOADING"
	VideoReady     VideoStatus = "READY"
	VideoFailed    VideoStatus = "FAILED"
)

// VideoRecord is a video as reported by the server. Read-only on the
// client; the id lives in the server's namespace, not the local upload one.
type VideoRecord struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Status    VideoStatus `json:"status"`
	SizeBytes int64       `json:"sizeBytes"`
	CreatedAt int64       `json:"createdAt"` // Unix epoch seconds
}

// VideoDetail extends VideoRecord with the playback manifest location.
// ManifestURL is only populated (and only trustworthy) when Status is READY.
type VideoDetail struct {
	VideoRecord
	ManifestURL string `json:"manifestUrl"`
}

// Playable reports whether the detail may be handed to a player.
func (d *VideoDetail) Playable() bool {
	return d.Status == VideoReady && d.ManifestURL != ""
}
