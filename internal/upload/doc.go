// Package upload ingests streaming multipart file uploads under strict
// count and size limits.
//
// The ingestor reads the request body part by part (it never calls
// ParseMultipartForm, which would buffer to memory or spill files on its
// own) and persists the single accepted file part to a caller-chosen path
// while counting the bytes it writes.
//
// Failure handling follows one rule: once a request is doomed (second file
// part, byte limit crossed) the partial file is deleted immediately, but the
// remaining body is still consumed before the failure is reported. Reporting
// early would leave unread bytes on the connection and stall or reset the
// client mid-upload.
//
// Every failure is a typed sentinel (ErrTooManyFiles, ErrFileTooLarge,
// ErrEmptyUpload, ErrMalformedUpload, ErrNoFile) so the HTTP layer can map
// it to a status code with errors.Is.
package upload
