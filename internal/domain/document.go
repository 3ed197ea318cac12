package domain

import "time"

// DocumentRecord is the persisted metadata for one uploaded PDF.
// The document store keeps these keyed by document id; the id itself
// is not repeated inside the record.
type DocumentRecord struct {
	FileName   string    `json:"fileName"`
	UploadDate time.Time `json:"uploadDate"`
	ChunkCount int       `json:"chunkCount"`
	PDFPath    string    `json:"pdfPath"`
}

// DocumentInfo is a record together with its id, as returned by the
// listing endpoint.
type DocumentInfo struct {
	ID string `json:"id"`
	DocumentRecord
}

// DeleteDocumentRequest is the body of DELETE /api/delete-document.
type DeleteDocumentRequest struct {
	DocID string `json:"docId"`
}

// DocumentListResponse is the response for listing documents.
type DocumentListResponse struct {
	Success   bool           `json:"success"`
	Documents []DocumentInfo `json:"documents"`
	Total     int            `json:"total"`
}
