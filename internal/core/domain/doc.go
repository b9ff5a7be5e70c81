// Package domain contains the core types of the document-grounded chat
// assistant: raw document units, chunks, sessions, transcripts and
// retrieval results. It has no dependencies on adapters or services.
package domain
