package drive

import "google.golang.org/api/drive/v3"

// File is the subset of Drive file metadata the CRM tracks. AppProperties is
// the per-file key-value bag holding customerId, category and stage.
type File struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	MimeType      string            `json:"mimeType"`
	ModifiedTime  string            `json:"modifiedTime,omitempty"`
	Size          int64             `json:"size,omitempty"`
	Parents       []string          `json:"parents,omitempty"`
	ThumbnailLink string            `json:"thumbnailLink,omitempty"`
	IconLink      string            `json:"iconLink,omitempty"`
	WebViewLink   string            `json:"webViewLink,omitempty"`
	HasThumbnail  bool              `json:"hasThumbnail,omitempty"`
	AppProperties map[string]string `json:"appProperties,omitempty"`
}

// FileList is a single page of folder children.
type FileList struct {
	Files         []File `json:"files"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

func fromAPI(f *drive.File) File {
	if f == nil {
		return File{}
	}
	return File{
		ID:            f.Id,
		Name:          f.Name,
		MimeType:      f.MimeType,
		ModifiedTime:  f.ModifiedTime,
		Size:          f.Size,
		Parents:       f.Parents,
		ThumbnailLink: f.ThumbnailLink,
		IconLink:      f.IconLink,
		WebViewLink:   f.WebViewLink,
		HasThumbnail:  f.HasThumbnail,
		AppProperties: f.AppProperties,
	}
}
