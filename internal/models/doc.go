// Package models defines domain entities for the convx conversion client.
//
// The package contains three categories of types:
//
// 1. Wire types mirroring the conversion service API (snake_case JSON):
//   - [Job] : A server-tracked conversion request with status and progress
//   - [JobPage] : Paginated job collection envelope
//   - [Identity] : The authenticated user profile
//   - [StorageInfo] : Storage quota usage
//
// 2. Client-side domain types:
//   - [Session] : The token pair and identity a user currently holds
//   - [JobStatus] : Job status enumeration with a terminal/non-terminal partition
//
// 3. The format catalog:
//   - [FormatCatalog] : Server-declared conversion matrix, category ordered as sent
//   - [FormatPair] : Allowed input/output format sets for one category
package models
