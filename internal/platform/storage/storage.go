package storage

import "mime/multipart"

// FileStore abstracts where uploaded proof documents live. Handlers persist the
// file before the ledger entry is written and best-effort remove it when the
// write fails.
type FileStore interface {
	// SaveProof stores the uploaded file under a name derived from the
	// transaction id and returns the stored path.
	SaveProof(file *multipart.FileHeader, transactionID string) (string, error)

	// Remove deletes a previously stored file. Removing a missing file is not
	// an error.
	Remove(path string) error
}
