package models

const (
	EntryFile      = "file"
	EntryDirectory = "directory"
)

// FileEntry is one row of a backend directory listing.
type FileEntry struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Size     *int64   `json:"size,omitempty"`
	Modified *float64 `json:"modified,omitempty"`
}

func (e FileEntry) IsDir() bool {
	return e.Type == EntryDirectory
}
