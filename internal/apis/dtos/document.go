package dtos

// DocumentProcessingResult is the outcome of the full upload pipeline.
type DocumentProcessingResult struct {
	Success      bool     `json:"success"`
	DocumentID   string   `json:"documentId"`
	DocumentName string   `json:"documentName"`
	Summary      *string  `json:"summary,omitempty"`
	Topics       []string `json:"topics,omitempty"`
	Error        *string  `json:"error,omitempty"`
}

type DocumentUploadData struct {
	DocumentID   string   `json:"documentId"`
	DocumentName string   `json:"documentName"`
	Summary      *string  `json:"summary,omitempty"`
	Topics       []string `json:"topics,omitempty"`
}

type DocumentUploadResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Data    *DocumentUploadData `json:"data,omitempty"`
}

type DocumentSummaryResponse struct {
	Summary string `json:"summary"`
}
