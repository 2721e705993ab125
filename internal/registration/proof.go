package registration

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/berryray-tech/Berry-Ray-main/internal/model"
)

const MaxProofSize = 5 * 1024 * 1024

var (
	ErrProofEmpty    = errors.New("please select a file to upload")
	ErrProofTooLarge = errors.New("file size must be less than 5MB")
	ErrProofType     = errors.New("please upload a valid image file (JPEG, PNG, WEBP, or GIF)")
)

var allowedProofTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// NewProof builds a proof from an uploaded file. The MIME type is sniffed from
// the bytes; whatever the client claimed is not consulted.
func NewProof(fileName string, data []byte) (model.ProofOfPayment, error) {
	p := model.ProofOfPayment{FileName: fileName, Data: data}
	if len(data) > 0 {
		p.MIMEType = baseType(mimetype.Detect(data).String())
	}
	if err := ValidateProof(p); err != nil {
		return model.ProofOfPayment{}, err
	}
	return p, nil
}

func ValidateProof(p model.ProofOfPayment) error {
	if p.Size() == 0 {
		return ErrProofEmpty
	}
	if p.Size() > MaxProofSize {
		return fmt.Errorf("%w (got %d bytes)", ErrProofTooLarge, p.Size())
	}
	if _, ok := allowedProofTypes[p.MIMEType]; !ok {
		return fmt.Errorf("%w: %s", ErrProofType, p.MIMEType)
	}
	return nil
}

// IsProofError reports whether err is one of the proof rejection errors.
func IsProofError(err error) bool {
	return errors.Is(err, ErrProofEmpty) || errors.Is(err, ErrProofTooLarge) || errors.Is(err, ErrProofType)
}

func proofExtension(p model.ProofOfPayment) string {
	if ext := strings.ToLower(filepath.Ext(p.FileName)); len(ext) > 1 {
		return ext
	}
	if m := mimetype.Lookup(p.MIMEType); m != nil {
		return m.Extension()
	}
	return ""
}

func baseType(mt string) string {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.TrimSpace(mt)
}
