package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Product categories. The set is fixed; writes with any other value are
// rejected before side effects.
const (
	CategorySmartphones = "smartphones"
	CategoryConsoles    = "consoles"
	CategoryGames       = "games"
)

// thumbWidthSegment is the path segment inserted into an image URL to request
// a width-limited rendition from the asset CDN.
const thumbWidthSegment = "w_120"

// Image is a product image attachment. RemoteID is the asset store's
// identifier for the uploaded object, kept so the asset can be destroyed when
// the image is removed or the product deleted. An image belongs to exactly
// one product; images are never shared across products.
type Image struct {
	RemoteID string `json:"remote_id"`
	URL      string `json:"url"`
}

// Thumbnail derives the width-limited rendition URL by inserting the width
// segment after the first path component of the image URL. The value is
// computed, never stored.
func (i Image) Thumbnail() string {
	u, err := url.Parse(i.URL)
	if err != nil || u.Path == "" {
		return i.URL
	}

	segments := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	if len(segments) < 2 {
		return i.URL
	}

	rest := segments[1:]
	u.Path = "/" + segments[0] + "/" + thumbWidthSegment + "/" + strings.Join(rest, "/")
	return u.String()
}

// Product is a catalog entry with its attached image set. The image list is
// append-ordered and owned exclusively by the product.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FullDetail  string    `json:"full_detail"`
	PriceCents  int64     `json:"price_cents"`
	Featured    bool      `json:"featured"`
	Category    string    `json:"category"`
	Images      []Image   `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidCategories returns the fixed set of product categories.
func ValidCategories() []string {
	return []string{CategorySmartphones, CategoryConsoles, CategoryGames}
}

// IsValidCategory checks whether the given value is a valid product category.
func IsValidCategory(category string) bool {
	for _, c := range ValidCategories() {
		if c == category {
			return true
		}
	}
	return false
}

// HasImage reports whether the product already holds an image with the given
// remote id.
func (p *Product) HasImage(remoteID string) bool {
	for _, img := range p.Images {
		if img.RemoteID == remoteID {
			return true
		}
	}
	return false
}

// AppendImages appends images in order, rejecting any remote id already
// present in the set. No two images on one product may share a remote id.
func (p *Product) AppendImages(images []Image) error {
	for _, img := range images {
		if p.HasImage(img.RemoteID) {
			return fmt.Errorf("duplicate image remote id %q", img.RemoteID)
		}
		p.Images = append(p.Images, img)
	}
	return nil
}

// RemoveImages drops every image whose remote id appears in remoteIDs,
// preserving the order of the remaining images, and returns the removed
// images.
func (p *Product) RemoveImages(remoteIDs []string) []Image {
	if len(remoteIDs) == 0 {
		return nil
	}

	drop := make(map[string]struct{}, len(remoteIDs))
	for _, id := range remoteIDs {
		drop[id] = struct{}{}
	}

	var removed []Image
	kept := p.Images[:0]
	for _, img := range p.Images {
		if _, ok := drop[img.RemoteID]; ok {
			removed = append(removed, img)
			continue
		}
		kept = append(kept, img)
	}
	p.Images = kept
	return removed
}
