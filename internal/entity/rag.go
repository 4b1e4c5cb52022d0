package entity

// IndexedChunk is a chunk paired with its embedding, ready to be written to the index
type IndexedChunk struct {
	Chunk
	Embedding []float32
}

type FileData struct {
	Filename string
	Content  []byte
}

type ReloadResult struct {
	Files  int `json:"files"`
	Chunks int `json:"chunks"`
}

type InfoResponse struct {
	Status         string `json:"status"`
	DocumentsCount int    `json:"documents_count"`
	ChatModel      string `json:"chat_model"`
	EmbeddingModel string `json:"embedding_model"`
	Mocks          bool   `json:"mocks"`
}
