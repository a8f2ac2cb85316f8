package domain

// UploadResult is the normalized outcome of one file upload. It lives only
// for the duration of the request; its fields are copied into a content item
// or an entity field by the client in a follow-up call.
type UploadResult struct {
	URL          string `json:"url"`
	StorageID    string `json:"publicId"`
	OriginalName string `json:"originalName"`
	ResourceKind string `json:"resourceType"` // image, video, application or file
	SizeBytes    int64  `json:"size"`
}
