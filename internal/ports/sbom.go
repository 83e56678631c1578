package ports

import "ndkports/internal/types"

// SBOMPort describes packaged ports as an SPDX document.
type SBOMPort interface {
	WriteSBOM(outputDir string, createdAt string, specs []types.PortSpec) error
}
