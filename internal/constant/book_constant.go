package constant

// Book processing status.
const (
	BookStatusExtracting            = "extracting"
	BookStatusProcessed             = "processed"
	BookStatusPartiallyProcessed    = "partially_processed"
	BookStatusFailed                = "failed"
	BookStatusError                 = "error"
	BookStatusNoChunks              = "no_chunks"
	BookStatusManualExtractRequired = "manual_extract_required"
)

// Events published on the NATS bus and pushed to websocket clients.
const (
	EventBookProcessed = "BOOK_PROCESSED"
	EventBookFailed    = "BOOK_FAILED"
	EventBookDeleted   = "BOOK_DELETED"

	WsMessageBookStatus = "book_status"
)

const (
	// BookSummaryLength is how much extracted text is kept on the book row.
	BookSummaryLength = 500

	ProcessingLockPrefix = "lock:book-extraction:"

	AppVersion = "1.0.0"
)

const (
	ChatSourceLLM     = "llm"
	ChatSourceLexical = "lexical"

	ChatSystemPrompt = "You are a helpful assistant that provides insights from books."

	ChatLLMPromptTemplate = `Based on the following excerpts from books, please answer the user's question.

Excerpts:
%s

User's question: %s

Please provide a thoughtful response based on the excerpts. If the excerpts don't contain relevant information to answer the question, please say so. Cite the book title and author when you use an excerpt.`

	ChatGeneralPromptTemplate = `You are BookBodh, an assistant for discussing books. The user has not selected a book. Answer briefly and, if the question is about a specific book, suggest uploading or selecting it.

User's question: %s`

	// ChatExcerptTemplate formats one chunk of LLM context: index, title, author, text.
	ChatExcerptTemplate = "\nChunk %d from '%s' by %s:\n%s\n"
)
