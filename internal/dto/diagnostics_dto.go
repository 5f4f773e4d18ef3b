package dto

type ExtractDiagnosticsResponse struct {
	FileName      string               `json:"file_name"`
	FileSize      int                  `json:"file_size"`
	PageCount     int                  `json:"page_count"`
	InspectError  string               `json:"inspect_error,omitempty"`
	Pass          string               `json:"pass"`
	LowConfidence bool                 `json:"low_confidence"`
	TextLength    int                  `json:"text_length"`
	WordCount     int                  `json:"word_count"`
	ChunkCount    int                  `json:"chunk_count"`
	Preview       string               `json:"preview"`
	Chunks        []*BookChunkResponse `json:"chunks"`
}

type HealthResponse struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	Version   string          `json:"version"`
	Checks    map[string]bool `json:"checks"`
	Timestamp string          `json:"timestamp"`
}
