package domain

import (
	"fmt"
	"strings"
)

// MaxAdditionalReferences bounds the extra reference images per product.
const MaxAdditionalReferences = 4

// ReferenceImage is one caller-supplied photograph of the physical product.
type ReferenceImage struct {
	Data []byte
	MIME string
}

// ProductDescriptor identifies the product being staged. The pipeline only
// reads it; ownership stays with the caller.
type ProductDescriptor struct {
	Name       string
	Primary    ReferenceImage
	Additional []ReferenceImage
}

// Validate enforces the descriptor invariants before a batch starts.
func (p ProductDescriptor) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrInvalidProduct)
	}
	if len(p.Primary.Data) == 0 {
		return fmt.Errorf("%w: primary reference image is required", ErrInvalidProduct)
	}
	if len(p.Additional) > MaxAdditionalReferences {
		return fmt.Errorf("%w: at most %d additional reference images", ErrInvalidProduct, MaxAdditionalReferences)
	}
	return nil
}

// References returns the primary image followed by the additional ones.
func (p ProductDescriptor) References() []ReferenceImage {
	refs := make([]ReferenceImage, 0, 1+len(p.Additional))
	refs = append(refs, p.Primary)
	refs = append(refs, p.Additional...)
	return refs
}
