package extractor

// New returns the extractor for release archives: a tar archive (any of the
// sniffed compressions) whose payload sits inside a single top-level
// wrapper directory, which is stripped on extraction.
func New() *TARExtractor {
	return NewTAR(1)
}
