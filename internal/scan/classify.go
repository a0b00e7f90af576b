// Package scan classifies directory listings for the extraction run.
package scan

import "path/filepath"

const (
	// MarkerExt marks a directory as holding model weights.
	MarkerExt = ".safetensors"
	// ArchiveExt identifies candidate archives to inspect.
	ArchiveExt = ".zip"
	// ModelInfoFileName is the single entry sought inside candidate archives.
	ModelInfoFileName = "model_info.json"
)

// Classification is the result of partitioning one directory's file listing.
type Classification struct {
	HasWeights bool
	Archives   []string
}

// Classify partitions the files directly inside one directory by extension.
// Extension comparison is a case-sensitive exact match, so "model.ZIP" is not
// a candidate archive. Classify is a pure function of its input listing.
func Classify(files []string) Classification {
	var cls Classification
	for _, file := range files {
		switch filepath.Ext(file) {
		case MarkerExt:
			cls.HasWeights = true
		case ArchiveExt:
			cls.Archives = append(cls.Archives, file)
		}
	}
	return cls
}
