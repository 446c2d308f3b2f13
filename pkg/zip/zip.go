// Package zip bundles a generated scene batch into a single downloadable
// archive.
package zip

import (
	"archive/zip"
	"bytes"

	"scenegen/internal/domain"
)

// ArchiveScenes writes one entry per scene in batch order, named by position
// and archetype.
func ArchiveScenes(scenes []domain.GeneratedScene) []byte {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for i, scene := range scenes {
		w, err := zw.Create(scene.Filename(i))
		if err != nil {
			continue
		}
		if _, err := w.Write(scene.ImageData); err != nil {
			return nil
		}
	}
	_ = zw.Close()
	return buf.Bytes()
}
