package fileassets

import (
	"fmt"
	"mime"
	"sort"
	"strings"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
)

type mimeGroup string

const (
	mimeGroupImages mimeGroup = "images"
	mimeGroupPDFs   mimeGroup = "pdfs"
)

var mimeGroupNames = map[mimeGroup]string{
	mimeGroupImages: "images",
	mimeGroupPDFs:   "PDFs",
}

var mimeGroupTypes = map[mimeGroup][]string{
	mimeGroupImages: {"image/png", "image/jpeg", "image/webp", "image/heic"},
	mimeGroupPDFs:   {"application/pdf"},
}

var allowedMimeGroupsByKind = map[enums.FileAssetKind][]mimeGroup{
	enums.FileAssetKindEstimate:              {mimeGroupPDFs, mimeGroupImages},
	enums.FileAssetKindStructuralMeasurement: {mimeGroupPDFs, mimeGroupImages},
	enums.FileAssetKindPreRepairPhoto:        {mimeGroupImages},
	enums.FileAssetKindPostRepairPhoto:       {mimeGroupImages},
}

var mimeTypesByKind = buildMimeTypesByKind()

func buildMimeTypesByKind() map[enums.FileAssetKind][]string {
	result := make(map[enums.FileAssetKind][]string, len(allowedMimeGroupsByKind))
	for kind, groups := range allowedMimeGroupsByKind {
		set := make(map[string]struct{})
		for _, group := range groups {
			for _, value := range mimeGroupTypes[group] {
				set[value] = struct{}{}
			}
		}
		list := make([]string, 0, len(set))
		for value := range set {
			list = append(list, value)
		}
		sort.Strings(list)
		result[kind] = list
	}
	return result
}

func normalizeMimeType(value string) (string, error) {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return "", fmt.Errorf("content type required")
	}
	mediaType, _, err := mime.ParseMediaType(clean)
	if err != nil {
		return "", fmt.Errorf("content type invalid: %w", err)
	}
	return strings.ToLower(mediaType), nil
}

func isAllowedMime(kind enums.FileAssetKind, mimeType string) bool {
	for _, candidate := range mimeTypesByKind[kind] {
		if candidate == mimeType {
			return true
		}
	}
	return false
}

func allowedMimeDescription(kind enums.FileAssetKind) string {
	var names []string
	for _, group := range allowedMimeGroupsByKind[kind] {
		names = append(names, mimeGroupNames[group])
	}
	switch len(names) {
	case 0:
		return "the approved content types"
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
	}
}
