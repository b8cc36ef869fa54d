// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ExtractorRegistry: Dispatches uploads to a format-specific Extractor
//   - Chunker: Splits extracted text into overlapping bounded chunks
//   - EmbeddingService: Maps text to fixed-dimension vectors
//   - VectorIndex: Persistent chunk collection with similarity search
//   - LLMService: Chat-completion backend (batch and streaming)
//   - SettingsStore: Application configuration persistence
//   - PromptStore: Prompt template source
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
