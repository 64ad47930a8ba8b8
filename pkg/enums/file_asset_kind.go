package enums

import "fmt"

// FileAssetKind defines which collection a file asset belongs to.
type FileAssetKind string

const (
	FileAssetKindEstimate              FileAssetKind = "estimate"
	FileAssetKindStructuralMeasurement FileAssetKind = "structural_measurement"
	FileAssetKindPreRepairPhoto        FileAssetKind = "pre_repair_photo"
	FileAssetKindPostRepairPhoto       FileAssetKind = "post_repair_photo"
)

var validFileAssetKinds = []FileAssetKind{
	FileAssetKindEstimate,
	FileAssetKindStructuralMeasurement,
	FileAssetKindPreRepairPhoto,
	FileAssetKindPostRepairPhoto,
}

// String returns the literal string for the kind.
func (k FileAssetKind) String() string {
	return string(k)
}

// IsValid reports whether the kind is known.
func (k FileAssetKind) IsValid() bool {
	for _, candidate := range validFileAssetKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseFileAssetKind converts raw input into a FileAssetKind.
func ParseFileAssetKind(value string) (FileAssetKind, error) {
	for _, candidate := range validFileAssetKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid file asset kind %q", value)
}
