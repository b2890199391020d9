package pipeline

import (
	"github.com/itsuki/garden/pkg/cache"
	"github.com/itsuki/garden/pkg/gallery"
)

// Load returns the records to lay out: opts.Records when set, otherwise the
// manifest contents. The records hash covers URLs, dimensions and titles in
// order.
func Load(opts Options) ([]gallery.ImageRecord, string, error) {
	records := opts.Records
	if records == nil {
		var err error
		records, err = gallery.ReadManifest(opts.Manifest)
		if err != nil {
			return nil, "", err
		}
	} else {
		records = gallery.Normalize(records)
	}

	hash, err := cache.HashJSON(records)
	if err != nil {
		return nil, "", err
	}
	return records, hash, nil
}
