package model

import (
	"errors"
	"fmt"
)

// MaxAttachmentSize caps uploads at 500 KiB; anything bigger is
// rejected before the owning entity is touched.
const MaxAttachmentSize = 500 * 1024

// ErrAttachmentTooLarge signals an upload over MaxAttachmentSize.
var ErrAttachmentTooLarge = errors.New("attachment exceeds 500 KiB limit")

// Attachment is a small file stored inline with its owning entity.
type Attachment struct {
	Name string `json:"name"`
	Type string `json:"type"` // MIME type, e.g. "application/pdf"
	Data string `json:"data"` // base64-encoded content
	Size int64  `json:"size"` // original size in bytes
}

// Validate rejects oversized attachments.
func (a Attachment) Validate() error {
	if a.Size > MaxAttachmentSize {
		return fmt.Errorf("%q (%d bytes): %w", a.Name, a.Size, ErrAttachmentTooLarge)
	}
	return nil
}

// ValidateAttachments checks every attachment in a list.
func ValidateAttachments(attachments []Attachment) error {
	for _, a := range attachments {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}
